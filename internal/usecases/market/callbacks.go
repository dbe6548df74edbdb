package market

import (
	"strconv"
	"strings"
)

// Action команда inline-кнопки
type Action int

const (
	ActionUnknown Action = iota

	ActionMainMenu
	ActionHelp
	ActionCancel
	ActionLangFR
	ActionLangEN

	ActionBuyMenu
	ActionBrowseCategories
	ActionCategory
	ActionViewProduct
	ActionPreviewProduct
	ActionProductReviews
	ActionSearch
	ActionBuyProduct
	ActionPay
	ActionCheckPayment
	ActionLibrary
	ActionDownload
	ActionReview
	ActionRate

	ActionSellMenu
	ActionCreateSeller
	ActionSellerDashboard
	ActionAddProduct
	ActionSetCategory
	ActionSkipCover
	ActionMyProducts
	ActionEditProduct
	ActionEditField
	ActionToggleProduct
	ActionDeleteProduct
	ActionConfirmDelete
	ActionMyWallet
	ActionSellerPayouts
	ActionSellerProfile
	ActionEditBio
	ActionEditWallet

	ActionAdminMenu
	ActionAdminStats
	ActionAdminUsers
	ActionAdminUser
	ActionAdminSuspendUser
	ActionAdminRestoreUser
	ActionAdminProducts
	ActionAdminSuspendProduct
	ActionAdminRestoreProduct
	ActionAdminPayouts
	ActionAdminPayoutDone
	ActionAdminPayoutForce
	ActionAdminTickets

	ActionSupportMenu
	ActionCreateTicket
	ActionMyTickets
	ActionViewTicket
	ActionReplyTicket
	ActionCloseTicket
	ActionEscalateTicket
	ActionContactSeller

	ActionAccountRecovery
	ActionSellerLogin
)

// Callback разобранные данные кнопки
type Callback struct {
	Action   Action
	ID       string // товар, заказ, тикет, выплата или пользователь
	Category string
	Page     int
	Currency string
	Field    string
	Value    int
}

var exactCallbacks = map[string]Action{
	"back_main":         ActionMainMenu,
	"help":              ActionHelp,
	"cancel":            ActionCancel,
	"lang_fr":           ActionLangFR,
	"lang_en":           ActionLangEN,
	"buy_menu":          ActionBuyMenu,
	"browse_categories": ActionBrowseCategories,
	"search_product":    ActionSearch,
	"library":           ActionLibrary,
	"sell_menu":         ActionSellMenu,
	"create_seller":     ActionCreateSeller,
	"seller_dashboard":  ActionSellerDashboard,
	"add_product":       ActionAddProduct,
	"skip_cover":        ActionSkipCover,
	"my_products":       ActionMyProducts,
	"my_wallet":         ActionMyWallet,
	"seller_payouts":    ActionSellerPayouts,
	"seller_profile":    ActionSellerProfile,
	"edit_bio":          ActionEditBio,
	"edit_wallet":       ActionEditWallet,
	"admin_menu":        ActionAdminMenu,
	"admin_stats":       ActionAdminStats,
	"admin_users":       ActionAdminUsers,
	"admin_products":    ActionAdminProducts,
	"admin_payouts":     ActionAdminPayouts,
	"admin_tickets":     ActionAdminTickets,
	"support_menu":      ActionSupportMenu,
	"create_ticket":     ActionCreateTicket,
	"my_tickets":        ActionMyTickets,
	"account_recovery":  ActionAccountRecovery,
	"seller_login":      ActionSellerLogin,
}

type prefixRoute struct {
	prefix string
	action Action
	decode func(cb *Callback, rest string) bool
}

func idArg(cb *Callback, rest string) bool {
	cb.ID = rest
	return rest != ""
}

// prefixCallbacks проверяются по порядку: более специфичный префикс раньше общего
var prefixCallbacks = []prefixRoute{
	{"product_reviews_", ActionProductReviews, idArg},
	{"preview_product_", ActionPreviewProduct, idArg},
	{"buy_product_", ActionBuyProduct, idArg},
	{"product_", ActionViewProduct, idArg},
	{"category_", ActionCategory, decodeCategoryPage},
	{"pay_", ActionPay, decodePay},
	{"check_payment_", ActionCheckPayment, idArg},
	{"download_", ActionDownload, idArg},
	{"review_", ActionReview, idArg},
	{"rate_", ActionRate, decodeRate},
	{"set_category_", ActionSetCategory, func(cb *Callback, rest string) bool {
		cb.Category = rest
		return rest != ""
	}},
	{"edit_product_", ActionEditProduct, idArg},
	{"edit_field_", ActionEditField, decodeEditField},
	{"toggle_product_", ActionToggleProduct, idArg},
	{"delete_product_", ActionDeleteProduct, idArg},
	{"confirm_delete_", ActionConfirmDelete, idArg},
	{"admin_users_", ActionAdminUsers, decodePage},
	{"admin_user_", ActionAdminUser, idArg},
	{"admin_suspend_user_", ActionAdminSuspendUser, idArg},
	{"admin_restore_user_", ActionAdminRestoreUser, idArg},
	{"admin_suspend_product_", ActionAdminSuspendProduct, idArg},
	{"admin_restore_product_", ActionAdminRestoreProduct, idArg},
	{"admin_payout_done_", ActionAdminPayoutDone, idArg},
	{"admin_payout_force_", ActionAdminPayoutForce, idArg},
	{"view_ticket_", ActionViewTicket, idArg},
	{"reply_ticket_", ActionReplyTicket, idArg},
	{"close_ticket_", ActionCloseTicket, idArg},
	{"escalate_ticket_", ActionEscalateTicket, idArg},
	{"contact_seller_", ActionContactSeller, idArg},
}

// category_<key> или category_<key>_<page>
func decodeCategoryPage(cb *Callback, rest string) bool {
	cb.Category = rest
	if i := strings.LastIndex(rest, "_"); i > 0 {
		if page, err := strconv.Atoi(rest[i+1:]); err == nil && page >= 0 {
			cb.Category = rest[:i]
			cb.Page = page
		}
	}
	return cb.Category != ""
}

// pay_<currency>_<product id>
func decodePay(cb *Callback, rest string) bool {
	currency, id, ok := strings.Cut(rest, "_")
	cb.Currency, cb.ID = currency, id
	return ok && currency != "" && id != ""
}

// rate_<1..5>_<product id>
func decodeRate(cb *Callback, rest string) bool {
	n, id, ok := strings.Cut(rest, "_")
	if !ok || id == "" {
		return false
	}
	v, err := strconv.Atoi(n)
	if err != nil {
		return false
	}
	cb.Value, cb.ID = v, id
	return true
}

// edit_field_<field>_<product id>
func decodeEditField(cb *Callback, rest string) bool {
	field, id, ok := strings.Cut(rest, "_")
	cb.Field, cb.ID = field, id
	return ok && field != "" && id != ""
}

func decodePage(cb *Callback, rest string) bool {
	page, err := strconv.Atoi(rest)
	if err != nil || page < 0 {
		return false
	}
	cb.Page = page
	return true
}

// ParseCallback точное совпадение, затем префиксы по порядку
func ParseCallback(data string) Callback {
	if action, ok := exactCallbacks[data]; ok {
		return Callback{Action: action}
	}
	for _, r := range prefixCallbacks {
		rest, ok := strings.CutPrefix(data, r.prefix)
		if !ok {
			continue
		}
		cb := Callback{Action: r.action}
		if r.decode(&cb, rest) {
			return cb
		}
		return Callback{Action: ActionUnknown}
	}
	return Callback{Action: ActionUnknown}
}

// Данные кнопок

func cbProduct(id string) string        { return "product_" + id }
func cbPreview(id string) string        { return "preview_product_" + id }
func cbProductReviews(id string) string { return "product_reviews_" + id }
func cbBuy(id string) string            { return "buy_product_" + id }
func cbPay(currency, id string) string  { return "pay_" + currency + "_" + id }
func cbCheckPayment(orderID string) string {
	return "check_payment_" + orderID
}
func cbDownload(orderID string) string { return "download_" + orderID }
func cbReview(productID string) string { return "review_" + productID }
func cbRate(n int, productID string) string {
	return "rate_" + strconv.Itoa(n) + "_" + productID
}

func cbCategory(key string, page int) string {
	if page == 0 {
		return "category_" + key
	}
	return "category_" + key + "_" + strconv.Itoa(page)
}

func cbSetCategory(key string) string         { return "set_category_" + key }
func cbEditProduct(id string) string          { return "edit_product_" + id }
func cbEditField(field, id string) string     { return "edit_field_" + field + "_" + id }
func cbToggleProduct(id string) string        { return "toggle_product_" + id }
func cbDeleteProduct(id string) string        { return "delete_product_" + id }
func cbConfirmDelete(id string) string        { return "confirm_delete_" + id }
func cbAdminUsers(page int) string            { return "admin_users_" + strconv.Itoa(page) }
func cbAdminUser(id int64) string             { return "admin_user_" + strconv.FormatInt(id, 10) }
func cbAdminSuspendUser(id int64) string      { return "admin_suspend_user_" + strconv.FormatInt(id, 10) }
func cbAdminRestoreUser(id int64) string      { return "admin_restore_user_" + strconv.FormatInt(id, 10) }
func cbAdminSuspendProduct(id string) string  { return "admin_suspend_product_" + id }
func cbAdminRestoreProduct(id string) string  { return "admin_restore_product_" + id }
func cbAdminPayoutDone(id string) string      { return "admin_payout_done_" + id }
func cbAdminPayoutForce(id string) string     { return "admin_payout_force_" + id }
func cbViewTicket(id string) string           { return "view_ticket_" + id }
func cbReplyTicket(id string) string          { return "reply_ticket_" + id }
func cbCloseTicket(id string) string          { return "close_ticket_" + id }
func cbEscalateTicket(id string) string       { return "escalate_ticket_" + id }
func cbContactSeller(productID string) string { return "contact_seller_" + productID }
