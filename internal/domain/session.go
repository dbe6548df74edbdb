package domain

import (
	"encoding/json"
	"fmt"
)

// Ключи состояния диалога. Значения строк стабильны: они лежат в redis.
const (
	StateAddingProduct        = "adding_product"
	StateStep                 = "step"
	StateProductData          = "product_data"
	StateCreatingSeller       = "creating_seller"
	StateSellerData           = "seller_data"
	StateWaitingForEmail      = "waiting_for_email"
	StateWaitingForSolana     = "waiting_for_solana_address"
	StateWaitingRecoveryEmail = "waiting_for_recovery_email"
	StateWaitingRecoveryCode  = "waiting_for_recovery_code"
	StateWaitingNewPassword   = "waiting_for_new_password"
	StateRecoveryEmail        = "recovery_email"
	StateLoggingIn            = "logging_in"
	StateEditingProduct       = "editing_product"
	StateEditingField         = "editing_field"
	StateCreatingTicket       = "creating_ticket"
	StateTicketData           = "ticket_data"
	StateReplyingTicket       = "replying_ticket"
	StateWaitingForSearch     = "waiting_for_search"
	StateWaitingForReview     = "waiting_for_review"
	StateReviewRating         = "review_rating"
	StateAdminAction          = "admin_action"
	StateFlow                 = "flow"
	StateLang                 = "lang"
	StateLastMenuMessage      = "last_menu_message_id"
)

// ConflictingStateKeys флаги, которые не могут жить одновременно: начало нового мастера
// сбрасывает все остальные
var ConflictingStateKeys = []string{
	StateAddingProduct,
	StateStep,
	StateProductData,
	StateCreatingSeller,
	StateSellerData,
	StateWaitingForEmail,
	StateWaitingForSolana,
	StateWaitingRecoveryEmail,
	StateWaitingRecoveryCode,
	StateWaitingNewPassword,
	StateRecoveryEmail,
	StateLoggingIn,
	StateEditingProduct,
	StateEditingField,
	StateCreatingTicket,
	StateTicketData,
	StateReplyingTicket,
	StateWaitingForSearch,
	StateWaitingForReview,
	StateReviewRating,
	StateAdminAction,
	StateFlow,
}

// Flow активный мастер
type Flow string

const (
	FlowNone             Flow = ""
	FlowAddProduct       Flow = "add_product"
	FlowSellerOnboarding Flow = "seller_onboarding"
	FlowRecovery         Flow = "recovery"
	FlowLogin            Flow = "login"
	FlowEditProduct      Flow = "edit_product"
	FlowSupportTicket    Flow = "support_ticket"
	FlowTicketReply      Flow = "ticket_reply"
	FlowSearch           Flow = "search"
	FlowReview           Flow = "review"
	FlowEditBio          Flow = "edit_bio"
)

// WizardStep шаг внутри мастера
type WizardStep string

const (
	StepTitle       WizardStep = "title"
	StepDescription WizardStep = "description"
	StepCategory    WizardStep = "category"
	StepPrice       WizardStep = "price"
	StepCover       WizardStep = "cover"
	StepFile        WizardStep = "file"

	StepSellerEmail  WizardStep = "email"
	StepSellerSolana WizardStep = "solana_address"

	StepRecoveryEmail    WizardStep = "recovery_email"
	StepRecoveryCode     WizardStep = "recovery_code"
	StepRecoveryPassword WizardStep = "new_password"

	StepLoginEmail    WizardStep = "login_email"
	StepLoginPassword WizardStep = "login_password"

	StepTicketSubject WizardStep = "ticket_subject"
	StepTicketMessage WizardStep = "ticket_message"

	StepReviewComment WizardStep = "review_comment"
)

// ProductWizardSteps порядок шагов мастера товара
var ProductWizardSteps = []WizardStep{StepTitle, StepDescription, StepCategory, StepPrice, StepCover, StepFile}

// NextProductStep следующий шаг мастера товара, "" после файла
func NextProductStep(step WizardStep) WizardStep {
	for i, s := range ProductWizardSteps {
		if s == step && i+1 < len(ProductWizardSteps) {
			return ProductWizardSteps[i+1]
		}
	}
	return ""
}

// SessionBag состояние диалога одного пользователя: ключ -> JSON значение
type SessionBag map[string]json.RawMessage

func (b SessionBag) Has(key string) bool {
	_, ok := b[key]
	return ok
}

func (b SessionBag) String(key string) string {
	raw, ok := b[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (b SessionBag) Bool(key string) bool {
	raw, ok := b[key]
	if !ok {
		return false
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	return v
}

func (b SessionBag) Int64(key string) int64 {
	raw, ok := b[key]
	if !ok {
		return 0
	}
	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	return v
}

// Decode раскладывает значение ключа в dst, false если ключа нет
func (b SessionBag) Decode(key string, dst interface{}) (bool, error) {
	raw, ok := b[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode state key %s: %w", key, err)
	}
	return true, nil
}

func (b SessionBag) Flow() Flow {
	return Flow(b.String(StateFlow))
}

func (b SessionBag) Step() WizardStep {
	return WizardStep(b.String(StateStep))
}

func (b SessionBag) Clone() SessionBag {
	out := make(SessionBag, len(b))
	for k, v := range b {
		cp := make(json.RawMessage, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// StateFields поля для слияния в состояние
type StateFields map[string]interface{}
