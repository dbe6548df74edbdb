package market

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/usecases/market/texts"
)

// view куда рисовать ответ: callback редактирует своё сообщение, команда и текст шлют новое
type view struct {
	chatID    int64
	messageID int64
}

func (s *Service) show(ctx context.Context, v view, text string, kb domain.Keyboard) error {
	return s.Telegram.EditMessage(ctx, v.chatID, v.messageID, text, kb)
}

func (s *Service) send(ctx context.Context, chatID int64, text string, kb domain.Keyboard) error {
	_, err := s.Telegram.SendMessageWithKeyboard(ctx, chatID, text, kb)
	return err
}

func (s *Service) lang(user *domain.User) string {
	if user == nil || user.Locale == "" {
		return texts.Lang(s.Config.DefaultLocale)
	}
	return texts.Lang(user.Locale)
}

func (s *Service) t(user *domain.User, key texts.Key, args ...interface{}) string {
	return texts.Get(s.lang(user), key, args...)
}

// GetOrCreateUser пользователь по Telegram ID, новый создаётся с языком клиента
func (s *Service) GetOrCreateUser(ctx context.Context, tgUser *domain.TelegramUser) (*domain.User, error) {
	user, err := s.UserRepo.GetByTelegramID(ctx, tgUser.ID)
	if err == nil {
		if user.FirstName != tgUser.FirstName || !sameString(user.Username, tgUser.Username) {
			user.FirstName = tgUser.FirstName
			user.Username = tgUser.Username
			if err := s.UserRepo.UpdateProfile(ctx, user); err != nil {
				s.Log.Warn("failed to refresh user profile", "error", err, "user_id", tgUser.ID)
			}
		}
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user %d: %w", tgUser.ID, err)
	}

	locale := s.Config.DefaultLocale
	if tgUser.LanguageCode != nil && strings.HasPrefix(strings.ToLower(*tgUser.LanguageCode), "en") {
		locale = "en"
	}
	now := s.Now().UTC()
	user = &domain.User{
		TelegramID: tgUser.ID,
		Username:   tgUser.Username,
		FirstName:  tgUser.FirstName,
		Locale:     locale,
		Status:     domain.UserStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.UserRepo.GetByTelegramID(ctx, tgUser.ID)
		}
		return nil, fmt.Errorf("failed to create user %d: %w", tgUser.ID, err)
	}
	s.Log.Info("new user registered", "user_id", tgUser.ID, "locale", locale)
	return user, nil
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *Service) HandleCommand(ctx context.Context, user *domain.User, chatID int64, command string, args string) error {
	v := view{chatID: chatID}
	switch command {
	case "start":
		if err := s.State.Reset(ctx, user.TelegramID, domain.StateLang); err != nil {
			return err
		}
		// ссылка вида t.me/bot?start=product_<id>
		if id, ok := strings.CutPrefix(args, "product_"); ok && id != "" {
			return s.showProduct(ctx, user, v, id)
		}
		return s.showMainMenu(ctx, user, v)
	case "help":
		return s.show(ctx, v, s.t(user, texts.Help, s.Pricing().CommissionPercent()), backKeyboard(s, user))
	case "cancel":
		if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
			return err
		}
		return s.showMainMenu(ctx, user, v)
	case "admin":
		return s.showAdminMenu(ctx, user, v)
	case "support":
		return s.showSupportMenu(ctx, user, v)
	case "library":
		return s.showLibrary(ctx, user, v)
	case "sell":
		return s.showSellMenu(ctx, user, v)
	default:
		return s.show(ctx, v, s.t(user, texts.UnknownCommand), backKeyboard(s, user))
	}
}

// HandleCallback разбирает данные кнопки и вызывает обработчик
func (s *Service) HandleCallback(ctx context.Context, user *domain.User, query *domain.CallbackQuery) error {
	v := view{chatID: user.TelegramID}
	if query.Message != nil {
		v.messageID = query.Message.MessageID
		if query.Message.Chat != nil {
			v.chatID = query.Message.Chat.ID
		}
	}
	cb := ParseCallback(*query.Data)
	if cb.Action == ActionUnknown {
		s.Log.Warn("unknown callback", "data", *query.Data, "user_id", user.TelegramID)
		return s.Telegram.AnswerCallbackQuery(ctx, query.ID, s.t(user, texts.UnknownAction), false)
	}
	_ = s.Telegram.AnswerCallbackQuery(ctx, query.ID, "", false)

	switch cb.Action {
	case ActionMainMenu:
		return s.showMainMenu(ctx, user, v)
	case ActionHelp:
		return s.show(ctx, v, s.t(user, texts.Help, s.Pricing().CommissionPercent()), backKeyboard(s, user))
	case ActionCancel:
		if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
			return err
		}
		return s.showMainMenu(ctx, user, v)
	case ActionLangFR:
		return s.switchLanguage(ctx, user, v, "fr")
	case ActionLangEN:
		return s.switchLanguage(ctx, user, v, "en")
	}

	switch cb.Action {
	case ActionBuyMenu, ActionBrowseCategories, ActionCategory, ActionViewProduct, ActionPreviewProduct,
		ActionProductReviews, ActionSearch, ActionBuyProduct, ActionPay, ActionCheckPayment,
		ActionLibrary, ActionDownload, ActionReview, ActionRate:
		return s.handleBuyCallback(ctx, user, v, cb)
	case ActionAdminMenu, ActionAdminStats, ActionAdminUsers, ActionAdminUser, ActionAdminSuspendUser,
		ActionAdminRestoreUser, ActionAdminProducts, ActionAdminSuspendProduct, ActionAdminRestoreProduct,
		ActionAdminPayouts, ActionAdminPayoutDone, ActionAdminPayoutForce, ActionAdminTickets:
		return s.handleAdminCallback(ctx, user, v, cb)
	case ActionSupportMenu, ActionCreateTicket, ActionMyTickets, ActionViewTicket, ActionReplyTicket,
		ActionCloseTicket, ActionEscalateTicket, ActionContactSeller:
		return s.handleSupportCallback(ctx, user, v, cb)
	case ActionAccountRecovery, ActionSellerLogin:
		return s.handleAuthCallback(ctx, user, v, cb)
	default:
		return s.handleSellCallback(ctx, user, v, cb)
	}
}

// HandleText ввод текста внутри активного мастера
func (s *Service) HandleText(ctx context.Context, user *domain.User, msg *domain.Message) error {
	bag, err := s.State.Get(ctx, user.TelegramID)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(*msg.Text)
	v := view{chatID: msg.Chat.ID}

	switch bag.Flow() {
	case domain.FlowAddProduct:
		return s.productWizardText(ctx, user, v, bag, text)
	case domain.FlowSellerOnboarding:
		return s.sellerOnboardingText(ctx, user, v, bag, text)
	case domain.FlowEditProduct:
		return s.editProductText(ctx, user, v, bag, text)
	case domain.FlowEditBio:
		return s.editBioText(ctx, user, v, text)
	case domain.FlowSearch:
		return s.searchText(ctx, user, v, text)
	case domain.FlowReview:
		return s.reviewText(ctx, user, v, bag, text)
	case domain.FlowSupportTicket:
		return s.ticketText(ctx, user, v, bag, text)
	case domain.FlowTicketReply:
		return s.ticketReplyText(ctx, user, v, bag, text)
	case domain.FlowRecovery:
		return s.recoveryText(ctx, user, v, bag, text)
	case domain.FlowLogin:
		return s.loginText(ctx, user, v, bag, text)
	default:
		return s.show(ctx, v, s.t(user, texts.UseMenu), mainMenuKeyboard(s, user))
	}
}

// HandleUpload файлы принимаются только мастером товара
func (s *Service) HandleUpload(ctx context.Context, user *domain.User, msg *domain.Message) error {
	bag, err := s.State.Get(ctx, user.TelegramID)
	if err != nil {
		return err
	}
	v := view{chatID: msg.Chat.ID}
	if bag.Flow() == domain.FlowAddProduct {
		switch bag.Step() {
		case domain.StepCover:
			return s.productCoverUpload(ctx, user, v, bag, msg)
		case domain.StepFile:
			return s.productFileUpload(ctx, user, v, bag, msg)
		}
	}
	return s.show(ctx, v, s.t(user, texts.UploadNotExpected), mainMenuKeyboard(s, user))
}

// ReportFailure ответ пользователю, если обработчик упал
func (s *Service) ReportFailure(ctx context.Context, chatID int64, err error) {
	var user *domain.User
	if u, getErr := s.UserRepo.GetByTelegramID(ctx, chatID); getErr == nil {
		user = u
	}

	text := s.t(user, texts.GenericError)
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		text = s.t(user, texts.InvalidInput, verr.Reason)
	case errors.Is(err, domain.ErrUserSuspended):
		text = s.t(user, texts.AccountSuspended)
	case errors.Is(err, domain.ErrPaymentGateway):
		text = s.t(user, texts.GatewayUnavailable)
	}
	kb := domain.Keyboard{
		domain.Row(domain.CallbackButton(s.t(user, texts.BtnSupport), "support_menu")),
		domain.Row(domain.CallbackButton(s.t(user, texts.BtnMainMenu), "back_main")),
	}
	if sendErr := s.send(ctx, chatID, text, kb); sendErr != nil {
		s.Log.Error("failed to report failure to user", "error", sendErr, "chat_id", chatID)
	}
}

func (s *Service) showMainMenu(ctx context.Context, user *domain.User, v view) error {
	return s.show(ctx, v, s.t(user, texts.Welcome, escape(user.FirstName)), mainMenuKeyboard(s, user))
}

func (s *Service) switchLanguage(ctx context.Context, user *domain.User, v view, locale string) error {
	if err := s.UserRepo.UpdateLocale(ctx, user.TelegramID, locale); err != nil {
		return fmt.Errorf("failed to update locale: %w", err)
	}
	user.Locale = locale
	if err := s.State.Update(ctx, user.TelegramID, domain.StateFields{domain.StateLang: locale}); err != nil {
		s.Log.Warn("failed to store language in state", "error", err, "user_id", user.TelegramID)
	}
	return s.showMainMenu(ctx, user, v)
}

// Pricing комиссия для текстов
func (s *Service) Pricing() domain.Pricing {
	return s.Payments.Pricing
}

// requireActive заблокированный пользователь может смотреть каталог, но не покупать и не продавать
func (s *Service) requireActive(ctx context.Context, user *domain.User, v view) (bool, error) {
	if !user.IsSuspended() {
		return true, nil
	}
	return false, s.show(ctx, v, s.t(user, texts.AccountSuspended), mainMenuKeyboard(s, user))
}
