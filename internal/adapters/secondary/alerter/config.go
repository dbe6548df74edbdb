package alerter

import "time"

type Config struct {
	BotToken        string        `envconfig:"BOT_TOKEN"`
	ChatID          int64         `envconfig:"CHAT_ID"`
	MessageThreadID *int64        `envconfig:"MESSAGE_THREAD_ID"`
	DedupWindow     time.Duration `envconfig:"DEDUP_WINDOW" default:"5m"`
}

// Enabled алерты уходят только если задан чат
func (c *Config) Enabled() bool {
	return c != nil && c.ChatID != 0
}
