package telegram

import (
	"context"
)

// SetWebhook регистрирует webhook; secretToken приходит обратно в заголовке X-Telegram-Bot-Api-Secret-Token
func (c *Client) SetWebhook(ctx context.Context, url string, secretToken string) error {
	req := map[string]interface{}{
		"url":             url,
		"allowed_updates": []string{"message", "callback_query"},
	}
	if secretToken != "" {
		req["secret_token"] = secretToken
	}
	if err := c.callJSON(ctx, "setWebhook", req, nil); err != nil {
		return err
	}
	c.log.Info("webhook registered", "url", url)
	return nil
}

// DeleteWebhook удаляет webhook (нужно вызывать перед запуском polling)
func (c *Client) DeleteWebhook(ctx context.Context) error {
	if err := c.callJSON(ctx, "deleteWebhook", map[string]bool{"drop_pending_updates": false}, nil); err != nil {
		return err
	}
	c.log.Info("webhook deleted successfully")
	return nil
}
