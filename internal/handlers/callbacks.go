package handlers

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/wisdomlc/quiz_bot/pkg/errors"
)

// CallbackKind identifies the action behind an inline button press.
type CallbackKind string

const (
	CallbackLang       CallbackKind = "lang"
	CallbackBattleOpen CallbackKind = "battle_open"
	CallbackBattleSolo CallbackKind = "battle_solo"
	CallbackBattleRoom CallbackKind = "battle_room"
	CallbackRoomStart  CallbackKind = "room_start"
	CallbackRoomEnd    CallbackKind = "room_end"
	CallbackRating     CallbackKind = "rating"
)

// Callback is the decoded form of inline button data. Raw callback
// strings are parsed here once; every handler works with the typed
// value.
type Callback struct {
	Kind     CallbackKind
	LangID   int
	BattleID uint
	RoomID   string
}

func encodeBattleOpen(battleID uint) string {
	return fmt.Sprintf("battle_open_%d", battleID)
}

func encodeBattleSolo(battleID uint) string {
	return fmt.Sprintf("battle_solo_%d", battleID)
}

func encodeBattleRoom(battleID uint) string {
	return fmt.Sprintf("battle_room_%d", battleID)
}

// DecodeCallback parses raw inline button data.
func DecodeCallback(data string) (Callback, error) {
	switch {
	case strings.HasPrefix(data, "lang_"):
		langID, err := strconv.Atoi(strings.TrimPrefix(data, "lang_"))
		if err != nil {
			return Callback{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "bad language callback")
		}
		return Callback{Kind: CallbackLang, LangID: langID}, nil

	case strings.HasPrefix(data, "battle_open_"):
		return battleCallback(CallbackBattleOpen, strings.TrimPrefix(data, "battle_open_"))

	case strings.HasPrefix(data, "battle_solo_"):
		return battleCallback(CallbackBattleSolo, strings.TrimPrefix(data, "battle_solo_"))

	case strings.HasPrefix(data, "battle_room_"):
		return battleCallback(CallbackBattleRoom, strings.TrimPrefix(data, "battle_room_"))

	case strings.HasPrefix(data, "room_start_"):
		return roomCallback(CallbackRoomStart, strings.TrimPrefix(data, "room_start_"))

	case strings.HasPrefix(data, "room_end_"):
		return roomCallback(CallbackRoomEnd, strings.TrimPrefix(data, "room_end_"))

	case strings.HasPrefix(data, "rating_"):
		return roomCallback(CallbackRating, strings.TrimPrefix(data, "rating_"))
	}

	return Callback{}, apperrors.New(apperrors.ErrCodeValidation, "unknown callback: "+data)
}

func battleCallback(kind CallbackKind, rest string) (Callback, error) {
	battleID, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return Callback{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "bad battle callback")
	}
	return Callback{Kind: kind, BattleID: uint(battleID)}, nil
}

func roomCallback(kind CallbackKind, roomID string) (Callback, error) {
	if roomID == "" {
		return Callback{}, apperrors.New(apperrors.ErrCodeValidation, "empty room id in callback")
	}
	return Callback{Kind: kind, RoomID: roomID}, nil
}
