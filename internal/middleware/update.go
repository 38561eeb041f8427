package middleware

import "github.com/go-telegram/bot/models"

// source describes where an update came from.
type source struct {
	kind     string
	chatID   int64
	chatType models.ChatType
	from     *models.User
}

func sourceOf(update *models.Update) source {
	switch {
	case update.Message != nil:
		kind := "message"
		if update.Message.Document != nil {
			kind = "document"
		}
		return source{
			kind:     kind,
			chatID:   update.Message.Chat.ID,
			chatType: update.Message.Chat.Type,
			from:     update.Message.From,
		}
	case update.CallbackQuery != nil:
		s := source{kind: "callback_query", from: &update.CallbackQuery.From}
		if msg := update.CallbackQuery.Message.Message; msg != nil {
			s.chatID = msg.Chat.ID
			s.chatType = msg.Chat.Type
		}
		return s
	default:
		return source{kind: "unknown"}
	}
}

func (s source) userID() int64 {
	if s.from == nil {
		return 0
	}
	return s.from.ID
}
