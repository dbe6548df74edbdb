package telegram

import (
	"context"
)

// текст всплывающего ответа на нажатие кнопки
const maxCallbackAnswerRunes = 200

type answerCallbackQueryRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
	ShowAlert       bool   `json:"show_alert,omitempty"`
}

// AnswerCallbackQuery снимает "часики" с кнопки; длинный текст обрезается, иначе Telegram вернёт 400
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string, text string, showAlert bool) error {
	return c.callJSON(ctx, "answerCallbackQuery", answerCallbackQueryRequest{
		CallbackQueryID: callbackID,
		Text:            truncateRunes(text, maxCallbackAnswerRunes),
		ShowAlert:       showAlert,
	}, nil)
}
