package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wisdomlc/quiz_bot/internal/models"
)

func LangKeyboard() interface{} {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇺🇿 O'zbekcha", "lang_1"),
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", "lang_2"),
		),
	)
}

func MainMenuKeyboard(langID int, isAdmin bool) interface{} {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(T(langID, "btn_new_quiz")),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(T(langID, "btn_settings")),
		),
	}

	if isAdmin {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(T(langID, "btn_admin_stats")),
			tgbotapi.NewKeyboardButton(T(langID, "btn_admin_cast")),
		))
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// BattleKeyboard lists battle nodes one per row. Pressing a node either
// descends into its children or, on a leaf, starts the room setup flow.
func BattleKeyboard(battles []models.Battle, langID int) interface{} {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(battles))
	for _, b := range battles {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.Name(langID), encodeBattleOpen(b.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// QuizModeKeyboard offers the two ways to play a leaf battle: alone,
// starting right away, or as the owner of a shared room.
func QuizModeKeyboard(langID int, battleID uint) interface{} {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(T(langID, "btn_solo_quiz"), encodeBattleSolo(battleID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(T(langID, "btn_group_quiz"), encodeBattleRoom(battleID)),
		),
	)
}

func RoomControlKeyboard(langID int, roomID string) interface{} {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(T(langID, "btn_start_quiz"), "room_start_"+roomID),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(T(langID, "btn_end_room"), "room_end_"+roomID),
		),
	)
}
