// Package texts тексты бота на французском и английском
package texts

import (
	"fmt"
	"strings"
)

// Key ключ текста в каталоге
type Key string

type entry struct {
	fr string
	en string
}

// Lang "en" для английской локали, всё остальное французский
func Lang(locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), "en") {
		return "en"
	}
	return "fr"
}

// Get текст на языке lang; без аргументов строка возвращается как есть
func Get(lang string, key Key, args ...interface{}) string {
	e, ok := catalog[key]
	if !ok {
		return string(key)
	}
	text := e.fr
	if lang == "en" && e.en != "" {
		text = e.en
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}

// StatusKey подпись статуса товара, заказа, выплаты, тикета или роли
func StatusKey(status string) Key {
	return Key("status_" + status)
}

// Has есть ли ключ в каталоге
func Has(key Key) bool {
	_, ok := catalog[key]
	return ok
}

const (
	Welcome            Key = "welcome"
	Help               Key = "help"
	UnknownCommand     Key = "unknown_command"
	UnknownAction      Key = "unknown_action"
	UseMenu            Key = "use_menu"
	UploadNotExpected  Key = "upload_not_expected"
	GenericError       Key = "generic_error"
	InvalidInput       Key = "invalid_input"
	AccountSuspended   Key = "account_suspended"
	GatewayUnavailable Key = "gateway_unavailable"
	AccessDenied       Key = "access_denied"
	NotSet             Key = "not_set"

	BuyMenu            Key = "buy_menu"
	ChooseCategory     Key = "choose_category"
	CategoryHeader     Key = "category_header"
	CategoryEmpty      Key = "category_empty"
	ProductNotFound    Key = "product_not_found"
	ProductUnavailable Key = "product_unavailable"
	ProductCard        Key = "product_card"
	ProductPreview     Key = "product_preview"
	ReviewsHeader      Key = "reviews_header"
	NoReviews          Key = "no_reviews"
	SearchPrompt       Key = "search_prompt"
	SearchTooShort     Key = "search_too_short"
	SearchNoResults    Key = "search_no_results"
	SearchResults      Key = "search_results"
	OwnProduct         Key = "own_product"
	AlreadyOwned       Key = "already_owned"
	ChooseCurrency     Key = "choose_currency"

	PaymentDetails          Key = "payment_details"
	OrderNotFound           Key = "order_not_found"
	OrderNotPaid            Key = "order_not_paid"
	PaymentMissingID        Key = "payment_missing_id"
	PaymentAlreadyCompleted Key = "payment_already_completed"
	PaymentConfirming       Key = "payment_confirming"
	PaymentExpired          Key = "payment_expired"
	PaymentFailed           Key = "payment_failed"
	PaymentWaiting          Key = "payment_waiting"
	PurchaseConfirmed       Key = "purchase_confirmed"
	PurchaseConfirmedNoFile Key = "purchase_confirmed_no_file"
	FileCaption             Key = "file_caption"
	LibraryEmpty            Key = "library_empty"
	LibraryHeader           Key = "library_header"

	ReviewNotBuyer       Key = "review_not_buyer"
	ReviewChooseRating   Key = "review_choose_rating"
	ReviewCommentPrompt  Key = "review_comment_prompt"
	ReviewCommentTooLong Key = "review_comment_too_long"
	ReviewDuplicate      Key = "review_duplicate"
	ReviewThanks         Key = "review_thanks"

	SellIntro     Key = "sell_intro"
	AskEmail      Key = "ask_email"
	InvalidEmail  Key = "invalid_email"
	EmailTaken    Key = "email_taken"
	AskSolana     Key = "ask_solana"
	InvalidSolana Key = "invalid_solana"
	Dashboard     Key = "dashboard"
	WalletMissing Key = "wallet_missing"
	Wallet        Key = "wallet"
	SellerProfile Key = "seller_profile"
	AskBio        Key = "ask_bio"
	NewSale       Key = "new_sale"

	AskTitle                  Key = "ask_title"
	InvalidTitle              Key = "invalid_title"
	AskDescription            Key = "ask_description"
	InvalidDescription        Key = "invalid_description"
	AskCategory               Key = "ask_category"
	AskPrice                  Key = "ask_price"
	InvalidPrice              Key = "invalid_price"
	AskCover                  Key = "ask_cover"
	AskFile                   Key = "ask_file"
	FileTooLarge              Key = "file_too_large"
	FileTypeRejected          Key = "file_type_rejected"
	ProductCreated            Key = "product_created"
	NoProducts                Key = "no_products"
	MyProducts                Key = "my_products"
	ManageProduct             Key = "manage_product"
	ProductAdminLocked        Key = "product_admin_locked"
	ConfirmDelete             Key = "confirm_delete"
	ProductDeleted            Key = "product_deleted"
	ProductDeactivatedInstead Key = "product_deactivated_instead"

	PayoutsHeader     Key = "payouts_header"
	NoPayouts         Key = "no_payouts"
	PayoutInEscrow    Key = "payout_in_escrow"
	PayoutReleased    Key = "payout_released"
	PayoutSent        Key = "payout_sent"
	PayoutAlreadyDone Key = "payout_already_done"
	PayoutMarkedDone  Key = "payout_marked_done"

	AdminMenu               Key = "admin_menu"
	AdminStats              Key = "admin_stats"
	AdminUsers              Key = "admin_users"
	AdminUserCard           Key = "admin_user_card"
	UserNotFound            Key = "user_not_found"
	YouWereSuspended        Key = "you_were_suspended"
	YouWereRestored         Key = "you_were_restored"
	AdminProducts           Key = "admin_products"
	ProductModerated        Key = "product_moderated"
	ProductSuspendedByAdmin Key = "product_suspended_by_admin"
	ProductRestoredByAdmin  Key = "product_restored_by_admin"
	AdminPayouts            Key = "admin_payouts"
	AdminTickets            Key = "admin_tickets"

	SupportMenu            Key = "support_menu"
	AskTicketSubject       Key = "ask_ticket_subject"
	AskTicketMessage       Key = "ask_ticket_message"
	AskTicketMessageSeller Key = "ask_ticket_message_seller"
	InvalidText            Key = "invalid_text"
	TicketCreated          Key = "ticket_created"
	NoTickets              Key = "no_tickets"
	MyTickets              Key = "my_tickets"
	TicketNotFound         Key = "ticket_not_found"
	TicketHeader           Key = "ticket_header"
	TicketClosed           Key = "ticket_closed"
	TicketEscalatedNotice  Key = "ticket_escalated_notice"

	RecoveryAskEmail    Key = "recovery_ask_email"
	RecoveryCodeSent    Key = "recovery_code_sent"
	RecoveryBadCode     Key = "recovery_bad_code"
	RecoveryCodeExpired Key = "recovery_code_expired"
	RecoveryAskPassword Key = "recovery_ask_password"
	InvalidPassword     Key = "invalid_password"
	LoginAskEmail       Key = "login_ask_email"
	LoginAskPassword    Key = "login_ask_password"
	LoginFailed         Key = "login_failed"
	AlreadySeller       Key = "already_seller"
)

// Кнопки
const (
	BtnBuy             Key = "btn_buy"
	BtnSell            Key = "btn_sell"
	BtnLibrary         Key = "btn_library"
	BtnSupport         Key = "btn_support"
	BtnAdmin           Key = "btn_admin"
	BtnMainMenu        Key = "btn_main_menu"
	BtnBack            Key = "btn_back"
	BtnCancel          Key = "btn_cancel"
	BtnCategories      Key = "btn_categories"
	BtnSearch          Key = "btn_search"
	BtnSearchAgain     Key = "btn_search_again"
	BtnBuyFor          Key = "btn_buy_for"
	BtnPreview         Key = "btn_preview"
	BtnReviews         Key = "btn_reviews"
	BtnContactSeller   Key = "btn_contact_seller"
	BtnCheckPayment    Key = "btn_check_payment"
	BtnDownload        Key = "btn_download"
	BtnReview          Key = "btn_review"
	BtnBecomeSeller    Key = "btn_become_seller"
	BtnSellerLogin     Key = "btn_seller_login"
	BtnRecovery        Key = "btn_recovery"
	BtnAddProduct      Key = "btn_add_product"
	BtnMyProducts      Key = "btn_my_products"
	BtnWallet          Key = "btn_wallet"
	BtnChangeWallet    Key = "btn_change_wallet"
	BtnPayouts         Key = "btn_payouts"
	BtnProfile         Key = "btn_profile"
	BtnDashboard       Key = "btn_dashboard"
	BtnEditBio         Key = "btn_edit_bio"
	BtnSkipCover       Key = "btn_skip_cover"
	BtnViewProduct     Key = "btn_view_product"
	BtnEditTitle       Key = "btn_edit_title"
	BtnEditDescription Key = "btn_edit_description"
	BtnEditPrice       Key = "btn_edit_price"
	BtnEditCategory    Key = "btn_edit_category"
	BtnActivate        Key = "btn_activate"
	BtnDeactivate      Key = "btn_deactivate"
	BtnDelete          Key = "btn_delete"
	BtnConfirmDelete   Key = "btn_confirm_delete"
	BtnAdminMenu       Key = "btn_admin_menu"
	BtnAdminStats      Key = "btn_admin_stats"
	BtnAdminUsers      Key = "btn_admin_users"
	BtnAdminProducts   Key = "btn_admin_products"
	BtnAdminPayouts    Key = "btn_admin_payouts"
	BtnAdminTickets    Key = "btn_admin_tickets"
	BtnSuspendUser     Key = "btn_suspend_user"
	BtnRestoreUser     Key = "btn_restore_user"
	BtnCreateTicket    Key = "btn_create_ticket"
	BtnMyTickets       Key = "btn_my_tickets"
	BtnViewTicket      Key = "btn_view_ticket"
	BtnReply           Key = "btn_reply"
	BtnCloseTicket     Key = "btn_close_ticket"
	BtnEscalate        Key = "btn_escalate"
)
