package market

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/pkg/validation"
	"github.com/admin/tg-bots/market-bot/internal/usecases/market/texts"
	"github.com/google/uuid"
)

const ticketsLimit = 10

// ticketData черновик тикета в состоянии диалога
type ticketData struct {
	Subject   string `json:"subject,omitempty"`
	SellerID  *int64 `json:"seller_id,omitempty"`
	ProductID string `json:"product_id,omitempty"`
}

func (s *Service) handleSupportCallback(ctx context.Context, user *domain.User, v view, cb Callback) error {
	switch cb.Action {
	case ActionSupportMenu:
		return s.showSupportMenu(ctx, user, v)
	case ActionCreateTicket:
		if err := s.State.StartFlow(ctx, user.TelegramID, domain.FlowSupportTicket, domain.StepTicketSubject, domain.StateFields{
			domain.StateCreatingTicket: true,
		}); err != nil {
			return err
		}
		return s.show(ctx, v, s.t(user, texts.AskTicketSubject), cancelKeyboard(s, user))
	case ActionMyTickets:
		return s.showMyTickets(ctx, user, v)
	case ActionViewTicket:
		return s.showTicket(ctx, user, v, cb.ID)
	case ActionReplyTicket:
		return s.startTicketReply(ctx, user, v, cb.ID)
	case ActionCloseTicket:
		return s.setTicketStatus(ctx, user, v, cb.ID, domain.TicketStatusClosed)
	case ActionEscalateTicket:
		return s.setTicketStatus(ctx, user, v, cb.ID, domain.TicketStatusEscalated)
	case ActionContactSeller:
		return s.contactSeller(ctx, user, v, cb.ID)
	}
	return nil
}

func (s *Service) showSupportMenu(ctx context.Context, user *domain.User, v view) error {
	kb := domain.Keyboard{
		domain.Row(button(s, user, texts.BtnCreateTicket, "create_ticket")),
		domain.Row(button(s, user, texts.BtnMyTickets, "my_tickets")),
	}
	if s.isAdmin(user) {
		kb = append(kb, domain.Row(button(s, user, texts.BtnAdminTickets, "admin_tickets")))
	}
	kb = append(kb, backKeyboard(s, user)...)
	return s.show(ctx, v, s.t(user, texts.SupportMenu, escape(s.Config.SupportEmail)), kb)
}

func (s *Service) contactSeller(ctx context.Context, user *domain.User, v view, productID string) error {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.SellerID == user.TelegramID {
		return s.show(ctx, v, s.t(user, texts.OwnProduct), backTo(s, user, cbProduct(productID)))
	}
	sellerID := product.SellerID
	if err := s.State.StartFlow(ctx, user.TelegramID, domain.FlowSupportTicket, domain.StepTicketMessage, domain.StateFields{
		domain.StateCreatingTicket: true,
		domain.StateTicketData: ticketData{
			Subject:   truncate(product.Title, validation.SubjectMaxLen),
			SellerID:  &sellerID,
			ProductID: productID,
		},
	}); err != nil {
		return err
	}
	return s.show(ctx, v, s.t(user, texts.AskTicketMessageSeller, escape(product.Title)), cancelKeyboard(s, user))
}

func (s *Service) ticketText(ctx context.Context, user *domain.User, v view, bag domain.SessionBag, text string) error {
	var data ticketData
	if _, err := bag.Decode(domain.StateTicketData, &data); err != nil {
		return err
	}

	switch bag.Step() {
	case domain.StepTicketSubject:
		subject, err := s.Validator.Text("subject", text, validation.SubjectMaxLen)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.InvalidText, validation.SubjectMaxLen), cancelKeyboard(s, user))
		}
		data.Subject = subject
		if err := s.State.SetStep(ctx, user.TelegramID, domain.StepTicketMessage, domain.StateFields{domain.StateTicketData: data}); err != nil {
			return err
		}
		return s.show(ctx, v, s.t(user, texts.AskTicketMessage), cancelKeyboard(s, user))

	case domain.StepTicketMessage:
		body, err := s.Validator.Text("message", text, validation.MessageMaxLen)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.InvalidText, validation.MessageMaxLen), cancelKeyboard(s, user))
		}
		if data.Subject == "" {
			data.Subject = truncate(body, 60)
		}
		return s.createTicket(ctx, user, v, data, body)
	}
	return s.showSupportMenu(ctx, user, v)
}

func (s *Service) createTicket(ctx context.Context, user *domain.User, v view, data ticketData, body string) error {
	counter, err := s.Counters.Next(ctx, domain.CounterTicket)
	if err != nil {
		return fmt.Errorf("failed to allocate ticket id: %w", err)
	}
	now := s.Now().UTC()
	ticket := &domain.SupportTicket{
		TicketID:  domain.FormatSequentialID(domain.CounterTicket.Prefix(), now, counter),
		UserID:    user.TelegramID,
		SellerID:  data.SellerID,
		Subject:   data.Subject,
		Status:    domain.TicketStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	first := &domain.SupportMessage{
		ID:         uuid.New(),
		TicketID:   ticket.TicketID,
		SenderID:   user.TelegramID,
		SenderRole: domain.SenderRoleUser,
		Body:       body,
		CreatedAt:  now,
	}
	if err := s.SupportRepo.CreateTicket(ctx, ticket, first); err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
		return err
	}
	s.Log.Info("support ticket created", "ticket_id", ticket.TicketID, "user_id", user.TelegramID)

	notice := fmt.Sprintf("📨 %s\n<b>%s</b>\n\n%s", ticket.TicketID, escape(ticket.Subject), escape(body))
	if ticket.SellerID != nil {
		s.notifyTicket(ctx, *ticket.SellerID, ticket.TicketID, notice)
	} else {
		s.notifyTicket(ctx, s.Config.AdminID, ticket.TicketID, notice)
	}
	return s.show(ctx, v, s.t(user, texts.TicketCreated, ticket.TicketID), domain.Keyboard{
		domain.Row(button(s, user, texts.BtnViewTicket, cbViewTicket(ticket.TicketID))),
		domain.Row(button(s, user, texts.BtnMainMenu, "back_main")),
	})
}

// notifyTicket сообщение участнику тикета с кнопкой открытия
func (s *Service) notifyTicket(ctx context.Context, chatID int64, ticketID, text string) {
	if chatID == 0 {
		return
	}
	var recipient *domain.User
	if u, err := s.UserRepo.GetByTelegramID(ctx, chatID); err == nil {
		recipient = u
	}
	kb := domain.Keyboard{domain.Row(button(s, recipient, texts.BtnViewTicket, cbViewTicket(ticketID)))}
	if err := s.send(ctx, chatID, text, kb); err != nil {
		s.Log.Warn("failed to notify ticket participant", "error", err, "chat_id", chatID, "ticket_id", ticketID)
	}
}

func (s *Service) showMyTickets(ctx context.Context, user *domain.User, v view) error {
	tickets, err := s.SupportRepo.ListByUser(ctx, user.TelegramID, ticketsLimit)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to list tickets: %w", err)
	}
	var kb domain.Keyboard
	for _, t := range tickets {
		kb = append(kb, domain.Row(domain.CallbackButton(ticketLabel(t), cbViewTicket(t.TicketID))))
	}
	kb = append(kb, domain.Row(button(s, user, texts.BtnCreateTicket, "create_ticket")))
	kb = append(kb, backTo(s, user, "support_menu")...)
	if len(tickets) == 0 {
		return s.show(ctx, v, s.t(user, texts.NoTickets), kb)
	}
	return s.show(ctx, v, s.t(user, texts.MyTickets, len(tickets)), kb)
}

// participantTicket тикет, если пользователь его участник
func (s *Service) participantTicket(ctx context.Context, user *domain.User, ticketID string) (*domain.SupportTicket, error) {
	ticket, err := s.SupportRepo.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %s: %w", ticketID, err)
	}
	if !ticket.IsParticipant(user.TelegramID, s.isAdmin(user)) {
		s.Log.Warn("user is not a ticket participant", "user_id", user.TelegramID, "ticket_id", ticketID)
		return nil, domain.ErrAccessDenied
	}
	return ticket, nil
}

func (s *Service) senderRole(user *domain.User, ticket *domain.SupportTicket) domain.SenderRole {
	switch {
	case s.isAdmin(user):
		return domain.SenderRoleAdmin
	case ticket.SellerID != nil && *ticket.SellerID == user.TelegramID:
		return domain.SenderRoleSeller
	default:
		return domain.SenderRoleUser
	}
}

func (s *Service) showTicket(ctx context.Context, user *domain.User, v view, ticketID string) error {
	ticket, err := s.participantTicket(ctx, user, ticketID)
	if errors.Is(err, domain.ErrAccessDenied) || errors.Is(err, domain.ErrNotFound) {
		return s.show(ctx, v, s.t(user, texts.TicketNotFound), backTo(s, user, "support_menu"))
	}
	if err != nil {
		return err
	}
	messages, err := s.SupportRepo.ListMessages(ctx, ticketID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to list ticket messages: %w", err)
	}

	var b strings.Builder
	b.WriteString(s.t(user, texts.TicketHeader, ticket.TicketID, escape(ticket.Subject), s.t(user, texts.StatusKey(string(ticket.Status)))))
	for _, m := range messages {
		fmt.Fprintf(&b, "\n\n<b>%s</b> · %s\n%s",
			s.t(user, texts.StatusKey(string(m.SenderRole))),
			m.CreatedAt.UTC().Format("02.01 15:04"),
			escape(m.Body))
	}

	role := s.senderRole(user, ticket)
	var kb domain.Keyboard
	if ticket.Status != domain.TicketStatusClosed {
		kb = append(kb, domain.Row(button(s, user, texts.BtnReply, cbReplyTicket(ticketID)), button(s, user, texts.BtnCloseTicket, cbCloseTicket(ticketID))))
		if role != domain.SenderRoleAdmin && ticket.Status != domain.TicketStatusEscalated {
			kb = append(kb, domain.Row(button(s, user, texts.BtnEscalate, cbEscalateTicket(ticketID))))
		}
	}
	back := "my_tickets"
	if role == domain.SenderRoleAdmin {
		back = "admin_tickets"
	}
	kb = append(kb, backTo(s, user, back)...)
	return s.show(ctx, v, b.String(), kb)
}

func (s *Service) startTicketReply(ctx context.Context, user *domain.User, v view, ticketID string) error {
	ticket, err := s.participantTicket(ctx, user, ticketID)
	if err != nil {
		return err
	}
	if ticket.Status == domain.TicketStatusClosed {
		return s.show(ctx, v, s.t(user, texts.TicketClosed), backTo(s, user, cbViewTicket(ticketID)))
	}
	if err := s.State.StartFlow(ctx, user.TelegramID, domain.FlowTicketReply, "", domain.StateFields{
		domain.StateReplyingTicket: ticketID,
	}); err != nil {
		return err
	}
	return s.show(ctx, v, s.t(user, texts.AskTicketMessage), cancelKeyboard(s, user))
}

func (s *Service) ticketReplyText(ctx context.Context, user *domain.User, v view, bag domain.SessionBag, text string) error {
	ticketID := bag.String(domain.StateReplyingTicket)
	ticket, err := s.participantTicket(ctx, user, ticketID)
	if err != nil {
		_ = s.State.FinishFlow(ctx, user.TelegramID)
		return err
	}
	body, err := s.Validator.Text("message", text, validation.MessageMaxLen)
	if err != nil {
		return s.show(ctx, v, s.t(user, texts.InvalidText, validation.MessageMaxLen), cancelKeyboard(s, user))
	}

	role := s.senderRole(user, ticket)
	status := ticket.StatusAfterReply(role)
	msg := &domain.SupportMessage{
		ID:         uuid.New(),
		TicketID:   ticketID,
		SenderID:   user.TelegramID,
		SenderRole: role,
		Body:       body,
		CreatedAt:  s.Now().UTC(),
	}
	if err := s.SupportRepo.AddMessage(ctx, msg, status); err != nil {
		return fmt.Errorf("failed to add ticket message: %w", err)
	}
	if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
		return err
	}
	ticket.Status = status
	s.Log.Info("ticket reply added", "ticket_id", ticketID, "sender_id", user.TelegramID, "role", role, "status", status)

	notice := fmt.Sprintf("💬 %s\n<b>%s</b>\n\n%s", ticket.TicketID, escape(ticket.Subject), escape(body))
	for _, id := range s.ticketRecipients(ticket, user.TelegramID) {
		s.notifyTicket(ctx, id, ticketID, notice)
	}
	if role != domain.SenderRoleUser && s.Mailer != nil {
		if author, err := s.UserRepo.GetByTelegramID(ctx, ticket.UserID); err == nil {
			if err := s.Mailer.TicketReply(ctx, author, ticket, body); err != nil {
				s.Log.Warn("failed to queue ticket reply email", "error", err, "ticket_id", ticketID)
			}
		}
	}
	return s.showTicket(ctx, user, view{chatID: v.chatID}, ticketID)
}

// ticketRecipients остальные участники тикета; админ получает всё, что эскалировано или без продавца
func (s *Service) ticketRecipients(ticket *domain.SupportTicket, sender int64) []int64 {
	var ids []int64
	add := func(id int64) {
		if id == 0 || id == sender {
			return
		}
		for _, existing := range ids {
			if existing == id {
				return
			}
		}
		ids = append(ids, id)
	}
	add(ticket.UserID)
	if ticket.SellerID != nil {
		add(*ticket.SellerID)
	}
	if ticket.SellerID == nil || ticket.Status == domain.TicketStatusEscalated {
		add(s.Config.AdminID)
	}
	return ids
}

func (s *Service) setTicketStatus(ctx context.Context, user *domain.User, v view, ticketID string, status domain.TicketStatus) error {
	ticket, err := s.participantTicket(ctx, user, ticketID)
	if err != nil {
		return err
	}
	if ticket.Status == status {
		return s.showTicket(ctx, user, v, ticketID)
	}
	if ticket.Status == domain.TicketStatusClosed {
		return s.show(ctx, v, s.t(user, texts.TicketClosed), backTo(s, user, cbViewTicket(ticketID)))
	}
	var adminID *int64
	if s.isAdmin(user) {
		id := user.TelegramID
		adminID = &id
	}
	if err := s.SupportRepo.SetStatus(ctx, ticketID, status, adminID); err != nil {
		return fmt.Errorf("failed to set ticket %s status: %w", ticketID, err)
	}
	ticket.Status = status
	s.Log.Info("ticket status changed", "ticket_id", ticketID, "status", status, "by", user.TelegramID)

	if status == domain.TicketStatusEscalated {
		if s.Alerter != nil {
			if err := s.Alerter.SendAlert(ctx, fmt.Sprintf("🚨 Ticket %s escalated: %s", ticketID, ticket.Subject)); err != nil {
				s.Log.Warn("failed to alert about escalation", "error", err, "ticket_id", ticketID)
			}
		}
		s.notifyTicket(ctx, s.Config.AdminID, ticketID, s.t(nil, texts.TicketEscalatedNotice, ticketID, escape(ticket.Subject)))
	}
	return s.showTicket(ctx, user, v, ticketID)
}
