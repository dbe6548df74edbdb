package market

import (
	"fmt"
	"html"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/usecases/market/texts"
)

// escape пользовательский текст в сообщениях с parse_mode=HTML
func escape(s string) string {
	return html.EscapeString(s)
}

func button(s *Service, user *domain.User, key texts.Key, data string) domain.Button {
	return domain.CallbackButton(s.t(user, key), data)
}

func mainMenuKeyboard(s *Service, user *domain.User) domain.Keyboard {
	kb := domain.Keyboard{
		domain.Row(button(s, user, texts.BtnBuy, "buy_menu"), button(s, user, texts.BtnSell, "sell_menu")),
		domain.Row(button(s, user, texts.BtnLibrary, "library"), button(s, user, texts.BtnSupport, "support_menu")),
	}
	if s.lang(user) == "en" {
		kb = append(kb, domain.Row(domain.CallbackButton("🇫🇷 Français", "lang_fr")))
	} else {
		kb = append(kb, domain.Row(domain.CallbackButton("🇬🇧 English", "lang_en")))
	}
	if s.isAdmin(user) {
		kb = append(kb, domain.Row(button(s, user, texts.BtnAdmin, "admin_menu")))
	}
	return kb
}

func backKeyboard(s *Service, user *domain.User) domain.Keyboard {
	return domain.Keyboard{domain.Row(button(s, user, texts.BtnMainMenu, "back_main"))}
}

func backTo(s *Service, user *domain.User, data string) domain.Keyboard {
	return domain.Keyboard{domain.Row(
		button(s, user, texts.BtnBack, data),
		button(s, user, texts.BtnMainMenu, "back_main"),
	)}
}

func cancelKeyboard(s *Service, user *domain.User) domain.Keyboard {
	return domain.Keyboard{domain.Row(button(s, user, texts.BtnCancel, "cancel"))}
}

// pager кнопки листания, page с нуля
func pager(page int, hasNext bool, data func(int) string) []domain.Button {
	var row []domain.Button
	if page > 0 {
		row = append(row, domain.CallbackButton("⬅️", data(page-1)))
	}
	if hasNext {
		row = append(row, domain.CallbackButton("➡️", data(page+1)))
	}
	return row
}

func categoriesKeyboard(s *Service, user *domain.User, categories []*domain.Category, data func(string) string, back string) domain.Keyboard {
	var kb domain.Keyboard
	for _, c := range categories {
		label := c.Label()
		if c.ProductsCount > 0 {
			label = fmt.Sprintf("%s (%d)", label, c.ProductsCount)
		}
		kb = append(kb, domain.Row(domain.CallbackButton(label, data(c.Key))))
	}
	return append(kb, backTo(s, user, back)...)
}

func productKeyboard(s *Service, user *domain.User, p *domain.Product) domain.Keyboard {
	kb := domain.Keyboard{}
	if p.IsPurchasable() && p.SellerID != user.TelegramID {
		kb = append(kb, domain.Row(domain.CallbackButton(s.t(user, texts.BtnBuyFor, p.PriceUSD.StringFixed(2)), cbBuy(p.ProductID))))
	}
	kb = append(kb,
		domain.Row(button(s, user, texts.BtnPreview, cbPreview(p.ProductID)), button(s, user, texts.BtnReviews, cbProductReviews(p.ProductID))),
		domain.Row(button(s, user, texts.BtnContactSeller, cbContactSeller(p.ProductID))),
	)
	return append(kb, backTo(s, user, cbCategory(p.Category, 0))...)
}
