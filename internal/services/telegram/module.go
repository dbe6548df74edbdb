package telegram

import (
	"log/slog"

	"github.com/admin/tg-bots/market-bot/internal/ports/service"
	telegramPort "github.com/admin/tg-bots/market-bot/internal/ports/telegram"
)

type Service struct {
	Client  telegramPort.IClient
	Handler service.IBotHandler
	Log     *slog.Logger
}

func New(client telegramPort.IClient, handler service.IBotHandler, log *slog.Logger) *Service {
	return &Service{
		Client:  client,
		Handler: handler,
		Log:     log,
	}
}

// SetHandler устанавливает обработчики (они сами зависят от сервиса отправки)
func (s *Service) SetHandler(handler service.IBotHandler) {
	s.Handler = handler
}
