package handlers

import "github.com/wisdomlc/quiz_bot/internal/models"

// Interface texts keyed by language id. Uzbek is the default and the
// fallback for keys the Russian table has no entry for.
var textsUz = map[string]string{
	"choose_lang":        "Tilni tanlang / Выберите язык:",
	"welcome":            "Assalomu alaykum! Wisdom LC viktorina botiga xush kelibsiz.",
	"main_menu":          "Asosiy menyu:",
	"btn_new_quiz":       "🎯 Yangi viktorina",
	"btn_settings":       "⚙️ Sozlamalar",
	"btn_admin_stats":    "👥 Barcha foydalanuvchilar",
	"btn_admin_cast":     "📢 Xabar yuborish",
	"choose_battle":      "Bo'limni tanlang:",
	"choose_mode":        "Qanday o'ynaysiz?",
	"btn_solo_quiz":      "👤 Yakka o'ynash",
	"btn_group_quiz":     "👥 Xona ochish",
	"ask_question_count": "Nechta savol bo'lsin? (1 dan 200 gacha son yuboring)",
	"bad_question_count": "Noto'g'ri qiymat. 1 dan 200 gacha son yuboring.",
	"ask_time_limit":     "Har bir savolga necha soniya vaqt berilsin? (son yuboring)",
	"bad_time_limit":     "Noto'g'ri qiymat. Musbat son yuboring.",
	"room_created":       "Viktorina xonasi tayyor!\n\nHavolani o'quvchilarga yuboring:\n%s\n\nHamma qo'shilgach \"Boshlash\" tugmasini bosing.",
	"btn_start_quiz":     "▶️ Boshlash",
	"btn_end_room":       "⏹ Xonani yopish",
	"ask_join_name":      "Ism va familiyangizni yuboring:",
	"joined_wait":        "Qabul qilindi! Ustoz viktorinani boshlaguncha kuting.",
	"room_not_found":     "Xona topilmadi. Havolani tekshiring.",
	"room_expired":       "Havolaning muddati tugagan. Ustozdan yangi havola so'rang.",
	"room_started":       "Viktorina allaqachon boshlangan.",
	"no_participants":    "Hali hech kim qo'shilmagan.",
	"not_owner":          "Bu amal faqat xona egasiga ruxsat etilgan.",
	"no_questions":       "Bu bo'limda savollar yo'q.",
	"no_results":         "Natijalar hali yo'q.",
	"quiz_started_owner": "Viktorina boshlandi! %d ishtirokchi savollarga javob bermoqda.",
	"room_ended":         "Xona yopildi.",
	"ask_new_name":       "Yangi ism va familiyangizni yuboring:",
	"name_saved":         "Ism saqlandi: %s",
	"ask_broadcast":      "Yuboriladigan xabar matnini kiriting:",
	"broadcast_done":     "Xabar %d foydalanuvchiga yuborildi (%d ta xato).",
	"total_users":        "Jami foydalanuvchilar: %d",
	"unknown_command":    "Tushunarsiz buyruq. /start ni bosing.",
	"rate_limited":       "Juda ko'p so'rov. Biroz kuting.",
	"error_generic":      "Xatolik yuz berdi. Keyinroq urinib ko'ring.",
}

var textsRu = map[string]string{
	"welcome":            "Здравствуйте! Добро пожаловать в викторину Wisdom LC.",
	"main_menu":          "Главное меню:",
	"btn_new_quiz":       "🎯 Новая викторина",
	"btn_settings":       "⚙️ Настройки",
	"choose_battle":      "Выберите раздел:",
	"choose_mode":        "Как хотите играть?",
	"btn_solo_quiz":      "👤 Играть одному",
	"btn_group_quiz":     "👥 Создать комнату",
	"ask_question_count": "Сколько вопросов? (число от 1 до 200)",
	"bad_question_count": "Неверное значение. Отправьте число от 1 до 200.",
	"ask_time_limit":     "Сколько секунд на вопрос? (отправьте число)",
	"bad_time_limit":     "Неверное значение. Отправьте положительное число.",
	"room_created":       "Комната готова!\n\nОтправьте ссылку ученикам:\n%s\n\nКогда все присоединятся, нажмите \"Начать\".",
	"btn_start_quiz":     "▶️ Начать",
	"btn_end_room":       "⏹ Закрыть комнату",
	"ask_join_name":      "Отправьте имя и фамилию:",
	"joined_wait":        "Принято! Дождитесь начала викторины.",
	"room_not_found":     "Комната не найдена. Проверьте ссылку.",
	"room_expired":       "Срок ссылки истёк. Попросите новую ссылку.",
	"room_started":       "Викторина уже началась.",
	"no_participants":    "Пока никто не присоединился.",
	"not_owner":          "Это действие доступно только владельцу комнаты.",
	"no_questions":       "В этом разделе нет вопросов.",
	"no_results":         "Результатов пока нет.",
	"quiz_started_owner": "Викторина началась! Отвечают %d участников.",
	"room_ended":         "Комната закрыта.",
	"ask_new_name":       "Отправьте новое имя и фамилию:",
	"name_saved":         "Имя сохранено: %s",
	"unknown_command":    "Непонятная команда. Нажмите /start.",
	"rate_limited":       "Слишком много запросов. Подождите немного.",
	"error_generic":      "Произошла ошибка. Попробуйте позже.",
}

// T resolves a text key for the user's language.
func T(langID int, key string) string {
	if langID == models.LangRussian {
		if text, ok := textsRu[key]; ok {
			return text
		}
	}
	if text, ok := textsUz[key]; ok {
		return text
	}
	return key
}
