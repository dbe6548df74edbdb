package notification

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	kafkaPort "github.com/admin/tg-bots/market-bot/internal/ports/kafka"
	"github.com/admin/tg-bots/market-bot/internal/ports/service"
	"github.com/google/uuid"
)

//go:embed templates/*.html
var templateFS embed.FS

const asyncSendTimeout = 30 * time.Second

type kind string

const (
	kindSellerWelcome  kind = "seller_welcome"
	kindSale           kind = "sale"
	kindPayoutReleased kind = "payout_released"
	kindRecoveryCode   kind = "recovery_code"
	kindTicketReply    kind = "ticket_reply"
)

var subjects = map[kind]map[string]string{
	kindSellerWelcome:  {"fr": "Bienvenue sur la marketplace", "en": "Welcome to the marketplace"},
	kindSale:           {"fr": "Nouvelle vente : %s", "en": "New sale: %s"},
	kindPayoutReleased: {"fr": "Votre paiement est disponible", "en": "Your payout is ready"},
	kindRecoveryCode:   {"fr": "Votre code de récupération", "en": "Your recovery code"},
	kindTicketReply:    {"fr": "Réponse au ticket %s", "en": "Reply on ticket %s"},
}

// Service письма пользователям: рендер html/template и постановка в очередь.
// С kafka письмо уходит событием в шину, без неё отправляется в горутине.
type Service struct {
	Sender       service.IEmailSender
	Producer     kafkaPort.IKafkaProducer
	Pricing      domain.Pricing
	Escrow       time.Duration
	SupportEmail string
	templates    map[kind]*template.Template
	Log          *slog.Logger
}

func New(
	sender service.IEmailSender,
	producer kafkaPort.IKafkaProducer,
	pricing domain.Pricing,
	escrow time.Duration,
	supportEmail string,
	log *slog.Logger,
) (*Service, error) {
	templates := make(map[kind]*template.Template, len(subjects))
	for k := range subjects {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+string(k)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse email template %s: %w", k, err)
		}
		templates[k] = t
	}
	if escrow <= 0 {
		escrow = domain.DefaultEscrowWindow
	}
	return &Service{
		Sender:       sender,
		Producer:     producer,
		Pricing:      pricing,
		Escrow:       escrow,
		SupportEmail: supportEmail,
		templates:    templates,
		Log:          log,
	}, nil
}

// Enqueue отправка без ожидания результата
func (s *Service) Enqueue(ctx context.Context, msg domain.EmailMessage) error {
	if msg.To == "" {
		return domain.NewValidationError("to", "empty recipient")
	}
	if s.Producer != nil {
		event := domain.Event{
			Type:  domain.EventEmailRequested,
			Key:   uuid.NewString(),
			Email: &msg,
		}
		err := s.Producer.Publish(ctx, event)
		if err == nil {
			return nil
		}
		s.Log.Warn("failed to publish email event, sending directly", "error", err, "subject", msg.Subject)
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), asyncSendTimeout)
		defer cancel()
		if err := s.Sender.Send(sendCtx, msg); err != nil {
			s.Log.Error("failed to send email", "error", err, "subject", msg.Subject)
		}
	}()
	return nil
}

func lang(locale string) string {
	if locale == "en" {
		return "en"
	}
	return "fr"
}

func (s *Service) render(k kind, locale string, subjectArg string, data map[string]interface{}) (domain.EmailMessage, error) {
	l := lang(locale)
	subject := subjects[k][l]
	if subjectArg != "" {
		subject = fmt.Sprintf(subject, subjectArg)
	}
	data["Lang"] = l
	data["Subject"] = subject
	data["SupportEmail"] = s.SupportEmail

	var buf bytes.Buffer
	if err := s.templates[k].ExecuteTemplate(&buf, "layout", data); err != nil {
		return domain.EmailMessage{}, fmt.Errorf("render %s email: %w", k, err)
	}
	return domain.EmailMessage{Subject: subject, HTML: buf.String()}, nil
}

func (s *Service) send(ctx context.Context, to string, k kind, locale, subjectArg string, data map[string]interface{}) error {
	if to == "" {
		s.Log.Debug("no email address, skipping", "kind", k)
		return nil
	}
	msg, err := s.render(k, locale, subjectArg, data)
	if err != nil {
		return err
	}
	msg.To = to
	return s.Enqueue(ctx, msg)
}

func email(u *domain.User) string {
	if u == nil || u.Email == nil {
		return ""
	}
	return *u.Email
}

func (s *Service) SellerWelcome(ctx context.Context, seller *domain.User) error {
	wallet := ""
	if seller.HasWallet() {
		wallet = *seller.SolanaAddress
	}
	return s.send(ctx, email(seller), kindSellerWelcome, seller.Locale, "", map[string]interface{}{
		"Name":              seller.DisplayName(),
		"Wallet":            wallet,
		"EscrowHours":       int(s.Escrow.Hours()),
		"CommissionPercent": s.Pricing.CommissionPercent(),
	})
}

// Sale письмо продавцу о продаже: цена, комиссия платформы, его доход
func (s *Service) Sale(ctx context.Context, seller *domain.User, order *domain.Order) error {
	return s.send(ctx, email(seller), kindSale, seller.Locale, order.ProductTitle, map[string]interface{}{
		"ProductTitle":      order.ProductTitle,
		"OrderID":           order.OrderID,
		"Price":             order.ProductPriceUSD.StringFixed(2),
		"Commission":        order.PlatformCommission.StringFixed(2),
		"Revenue":           order.SellerRevenue.StringFixed(2),
		"CommissionPercent": s.Pricing.CommissionPercent(),
		"EscrowHours":       int(s.Escrow.Hours()),
	})
}

func (s *Service) PayoutReleased(ctx context.Context, seller *domain.User, payout *domain.Payout) error {
	return s.send(ctx, email(seller), kindPayoutReleased, seller.Locale, "", map[string]interface{}{
		"Amount": payout.TotalAmountUSD.StringFixed(2),
		"Wallet": payout.WalletAddress,
	})
}

func (s *Service) RecoveryCode(ctx context.Context, to, locale, code string, ttl time.Duration) error {
	return s.send(ctx, to, kindRecoveryCode, locale, "", map[string]interface{}{
		"Code":       code,
		"TTLMinutes": int(ttl.Minutes()),
	})
}

func (s *Service) TicketReply(ctx context.Context, recipient *domain.User, ticket *domain.SupportTicket, body string) error {
	if recipient == nil {
		return nil
	}
	return s.send(ctx, email(recipient), kindTicketReply, recipient.Locale, ticket.TicketID, map[string]interface{}{
		"TicketID":      ticket.TicketID,
		"TicketSubject": ticket.Subject,
		"Body":          body,
	})
}
