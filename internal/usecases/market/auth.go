package market

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/ports/cache"
	"github.com/admin/tg-bots/market-bot/internal/usecases/market/texts"
	"golang.org/x/crypto/bcrypt"
)

func recoveryCodeKey(email string) string     { return "recovery:code:" + email }
func recoveryAttemptsKey(email string) string { return "recovery:attempts:" + email }

func (s *Service) handleAuthCallback(ctx context.Context, user *domain.User, v view, cb Callback) error {
	if ok, err := s.requireActive(ctx, user, v); !ok {
		return err
	}
	switch cb.Action {
	case ActionAccountRecovery:
		if err := s.State.StartFlow(ctx, user.TelegramID, domain.FlowRecovery, domain.StepRecoveryEmail, domain.StateFields{
			domain.StateWaitingRecoveryEmail: true,
		}); err != nil {
			return err
		}
		return s.show(ctx, v, s.t(user, texts.RecoveryAskEmail), cancelKeyboard(s, user))
	case ActionSellerLogin:
		if user.IsSeller {
			return s.showDashboard(ctx, user, v)
		}
		if err := s.State.StartFlow(ctx, user.TelegramID, domain.FlowLogin, domain.StepLoginEmail, domain.StateFields{
			domain.StateLoggingIn: true,
		}); err != nil {
			return err
		}
		return s.show(ctx, v, s.t(user, texts.LoginAskEmail), cancelKeyboard(s, user))
	}
	return nil
}

// generateCode шесть случайных цифр
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// sellerByEmail продавец с этим email, nil если такого нет
func (s *Service) sellerByEmail(ctx context.Context, email string) (*domain.User, error) {
	account, err := s.UserRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if !account.IsSeller {
		return nil, nil
	}
	return account, nil
}

// recoveryText email -> код из письма -> новый пароль
func (s *Service) recoveryText(ctx context.Context, user *domain.User, v view, bag domain.SessionBag, text string) error {
	switch bag.Step() {
	case domain.StepRecoveryEmail:
		email, err := s.Validator.Email(text)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.InvalidEmail), cancelKeyboard(s, user))
		}
		account, err := s.sellerByEmail(ctx, email)
		if err != nil {
			return err
		}
		if account != nil {
			if err := s.sendRecoveryCode(ctx, account, email); err != nil {
				return err
			}
		} else {
			s.Log.Info("recovery requested for unknown email", "user_id", user.TelegramID)
		}
		// ответ одинаковый, чтобы не раскрывать, есть ли такой аккаунт
		if err := s.State.SetStep(ctx, user.TelegramID, domain.StepRecoveryCode, domain.StateFields{
			domain.StateWaitingRecoveryEmail: nil,
			domain.StateWaitingRecoveryCode:  true,
			domain.StateRecoveryEmail:        email,
		}); err != nil {
			return err
		}
		return s.show(ctx, v, s.t(user, texts.RecoveryCodeSent, int(recoveryCodeTTL.Minutes())), cancelKeyboard(s, user))

	case domain.StepRecoveryCode:
		email := bag.String(domain.StateRecoveryEmail)
		code, err := s.Validator.RecoveryCode(text)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.RecoveryBadCode), cancelKeyboard(s, user))
		}
		ok, err := s.checkRecoveryCode(ctx, email, code)
		if errors.Is(err, cache.ErrCacheMiss) {
			if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
				return err
			}
			return s.show(ctx, v, s.t(user, texts.RecoveryCodeExpired), domain.Keyboard{
				domain.Row(button(s, user, texts.BtnRecovery, "account_recovery")),
				domain.Row(button(s, user, texts.BtnMainMenu, "back_main")),
			})
		}
		if err != nil {
			return err
		}
		if !ok {
			return s.show(ctx, v, s.t(user, texts.RecoveryBadCode), cancelKeyboard(s, user))
		}
		if err := s.State.SetStep(ctx, user.TelegramID, domain.StepRecoveryPassword, domain.StateFields{
			domain.StateWaitingRecoveryCode: nil,
			domain.StateWaitingNewPassword:  true,
		}); err != nil {
			return err
		}
		return s.show(ctx, v, s.t(user, texts.RecoveryAskPassword), cancelKeyboard(s, user))

	case domain.StepRecoveryPassword:
		if err := s.Validator.Password(text); err != nil {
			return s.show(ctx, v, s.t(user, texts.InvalidPassword), cancelKeyboard(s, user))
		}
		email := bag.String(domain.StateRecoveryEmail)
		account, err := s.sellerByEmail(ctx, email)
		if err != nil {
			return err
		}
		if account == nil {
			if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
				return err
			}
			return s.showSellMenu(ctx, user, v)
		}
		if account.IsSuspended() {
			return s.refuseSuspended(ctx, user, v, account)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.UserRepo.SetPasswordHash(ctx, account.TelegramID, string(hash)); err != nil {
			return fmt.Errorf("failed to save password: %w", err)
		}
		s.Log.Info("seller password reset", "seller_id", account.TelegramID, "user_id", user.TelegramID)
		return s.bindSeller(ctx, user, v, account)
	}
	return s.showSellMenu(ctx, user, v)
}

func (s *Service) sendRecoveryCode(ctx context.Context, account *domain.User, email string) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate recovery code: %w", err)
	}
	if err := s.Codes.Set(ctx, recoveryCodeKey(email), code, recoveryCodeTTL); err != nil {
		return fmt.Errorf("failed to store recovery code: %w", err)
	}
	if err := s.Codes.Delete(ctx, recoveryAttemptsKey(email)); err != nil {
		s.Log.Warn("failed to reset recovery attempts", "error", err)
	}
	if s.Mailer == nil {
		s.Log.Warn("recovery code generated but mailer is not configured", "seller_id", account.TelegramID)
		return nil
	}
	if err := s.Mailer.RecoveryCode(ctx, email, s.lang(account), code, recoveryCodeTTL); err != nil {
		return fmt.Errorf("failed to send recovery code: %w", err)
	}
	s.Log.Info("recovery code sent", "seller_id", account.TelegramID)
	return nil
}

// checkRecoveryCode после recoveryAttempts неудачных попыток код сгорает
func (s *Service) checkRecoveryCode(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.Codes.Get(ctx, recoveryCodeKey(email))
	if err != nil {
		return false, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1 {
		if err := s.Codes.Delete(ctx, recoveryCodeKey(email)); err != nil {
			s.Log.Warn("failed to delete used recovery code", "error", err)
		}
		return true, nil
	}

	attempts := 0
	if raw, err := s.Codes.Get(ctx, recoveryAttemptsKey(email)); err == nil {
		attempts, _ = strconv.Atoi(raw)
	}
	attempts++
	if attempts >= recoveryAttempts {
		_ = s.Codes.Delete(ctx, recoveryCodeKey(email))
		_ = s.Codes.Delete(ctx, recoveryAttemptsKey(email))
		return false, cache.ErrCacheMiss
	}
	if err := s.Codes.Set(ctx, recoveryAttemptsKey(email), strconv.Itoa(attempts), recoveryCodeTTL); err != nil {
		s.Log.Warn("failed to store recovery attempts", "error", err)
	}
	return false, nil
}

func (s *Service) loginText(ctx context.Context, user *domain.User, v view, bag domain.SessionBag, text string) error {
	switch bag.Step() {
	case domain.StepLoginEmail:
		email, err := s.Validator.Email(text)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.InvalidEmail), cancelKeyboard(s, user))
		}
		if err := s.State.SetStep(ctx, user.TelegramID, domain.StepLoginPassword, domain.StateFields{
			domain.StateSellerData: sellerData{Email: email},
		}); err != nil {
			return err
		}
		return s.show(ctx, v, s.t(user, texts.LoginAskPassword), cancelKeyboard(s, user))

	case domain.StepLoginPassword:
		var data sellerData
		if _, err := bag.Decode(domain.StateSellerData, &data); err != nil {
			return err
		}
		account, err := s.sellerByEmail(ctx, data.Email)
		if err != nil {
			return err
		}
		if account == nil || account.PasswordHash == nil ||
			bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(text)) != nil {
			s.Log.Warn("seller login failed", "user_id", user.TelegramID)
			return s.show(ctx, v, s.t(user, texts.LoginFailed), domain.Keyboard{
				domain.Row(button(s, user, texts.BtnRecovery, "account_recovery")),
				domain.Row(button(s, user, texts.BtnCancel, "cancel")),
			})
		}
		return s.bindSeller(ctx, user, v, account)
	}
	return s.showSellMenu(ctx, user, v)
}

// bindSeller привязывает профиль продавца к текущему Telegram аккаунту
func (s *Service) bindSeller(ctx context.Context, user *domain.User, v view, account *domain.User) error {
	if account.IsSuspended() {
		return s.refuseSuspended(ctx, user, v, account)
	}
	if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
		return err
	}
	if account.TelegramID != user.TelegramID {
		if user.IsSeller {
			return s.show(ctx, v, s.t(user, texts.AlreadySeller), backTo(s, user, "seller_dashboard"))
		}
		if err := s.UserRepo.TransferSeller(ctx, account.TelegramID, user.TelegramID); err != nil {
			return fmt.Errorf("failed to transfer seller profile: %w", err)
		}
		s.Log.Info("seller profile bound to new account", "from", account.TelegramID, "to", user.TelegramID)
	}
	fresh, err := s.UserRepo.GetByTelegramID(ctx, user.TelegramID)
	if err != nil {
		return fmt.Errorf("failed to reload user: %w", err)
	}
	return s.showDashboard(ctx, fresh, v)
}

// refuseSuspended заблокированный профиль нельзя перенести на другой аккаунт
func (s *Service) refuseSuspended(ctx context.Context, user *domain.User, v view, account *domain.User) error {
	if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
		return err
	}
	s.Log.Warn("suspended seller tried to bind profile", "seller_id", account.TelegramID, "user_id", user.TelegramID)
	return s.show(ctx, v, s.t(user, texts.AccessDenied), backTo(s, user, "back_main"))
}
