package market

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/admin/tg-bots/market-bot/internal/pkg/validation"
	"github.com/admin/tg-bots/market-bot/internal/services/state"
	"github.com/admin/tg-bots/market-bot/internal/usecases/market/texts"
	"github.com/shopspring/decimal"
)

const (
	payoutsLimit  = 10
	productFolder = "products"
	coverFolder   = "covers"
)

func (s *Service) handleSellCallback(ctx context.Context, user *domain.User, v view, cb Callback) error {
	switch cb.Action {
	case ActionSellMenu:
		return s.showSellMenu(ctx, user, v)
	case ActionCreateSeller:
		return s.startSellerOnboarding(ctx, user, v)
	}

	if !user.IsSeller {
		return s.showSellMenu(ctx, user, v)
	}
	switch cb.Action {
	case ActionSellerDashboard:
		return s.showDashboard(ctx, user, v)
	case ActionAddProduct:
		return s.startProductWizard(ctx, user, v)
	case ActionSetCategory:
		return s.setCategory(ctx, user, v, cb.Category)
	case ActionSkipCover:
		return s.skipCover(ctx, user, v)
	case ActionMyProducts:
		return s.showMyProducts(ctx, user, v)
	case ActionEditProduct:
		return s.showProductManagement(ctx, user, v, cb.ID)
	case ActionEditField:
		return s.startEditField(ctx, user, v, domain.ProductField(cb.Field), cb.ID)
	case ActionToggleProduct:
		return s.toggleProduct(ctx, user, v, cb.ID)
	case ActionDeleteProduct:
		return s.askDeleteProduct(ctx, user, v, cb.ID)
	case ActionConfirmDelete:
		return s.deleteProduct(ctx, user, v, cb.ID)
	case ActionMyWallet:
		return s.showWallet(ctx, user, v)
	case ActionEditWallet:
		if ok, err := s.requireActive(ctx, user, v); !ok {
			return err
		}
		if err := s.State.StartFlow(ctx, user.TelegramID, domain.FlowSellerOnboarding, domain.StepSellerSolana, domain.StateFields{
			domain.StateWaitingForSolana: true,
		}); err != nil {
			return err
		}
		return s.show(ctx, v, s.t(user, texts.AskSolana), cancelKeyboard(s, user))
	case ActionSellerPayouts:
		return s.showSellerPayouts(ctx, user, v)
	case ActionSellerProfile:
		return s.showSellerProfile(ctx, user, v)
	case ActionEditBio:
		if err := s.State.StartFlow(ctx, user.TelegramID, domain.FlowEditBio, "", nil); err != nil {
			return err
		}
		return s.show(ctx, v, s.t(user, texts.AskBio, validation.BioMaxLen), cancelKeyboard(s, user))
	}
	return nil
}

func (s *Service) showSellMenu(ctx context.Context, user *domain.User, v view) error {
	if user.IsSeller {
		return s.showDashboard(ctx, user, v)
	}
	kb := domain.Keyboard{
		domain.Row(button(s, user, texts.BtnBecomeSeller, "create_seller")),
		domain.Row(button(s, user, texts.BtnSellerLogin, "seller_login")),
		domain.Row(button(s, user, texts.BtnRecovery, "account_recovery")),
	}
	kb = append(kb, backKeyboard(s, user)...)
	return s.show(ctx, v, s.t(user, texts.SellIntro, s.Pricing().CommissionPercent()), kb)
}

func (s *Service) startSellerOnboarding(ctx context.Context, user *domain.User, v view) error {
	if ok, err := s.requireActive(ctx, user, v); !ok {
		return err
	}
	if user.IsSeller {
		return s.showDashboard(ctx, user, v)
	}
	if err := s.State.StartFlow(ctx, user.TelegramID, domain.FlowSellerOnboarding, domain.StepSellerEmail, domain.StateFields{
		domain.StateCreatingSeller:  true,
		domain.StateWaitingForEmail: true,
	}); err != nil {
		return err
	}
	return s.show(ctx, v, s.t(user, texts.AskEmail), cancelKeyboard(s, user))
}

type sellerData struct {
	Email string `json:"email"`
}

// sellerOnboardingText email, затем solana-адрес; уже продавец меняет только кошелёк
func (s *Service) sellerOnboardingText(ctx context.Context, user *domain.User, v view, bag domain.SessionBag, text string) error {
	switch bag.Step() {
	case domain.StepSellerEmail:
		email, err := s.Validator.Email(text)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.InvalidEmail), cancelKeyboard(s, user))
		}
		if other, err := s.UserRepo.GetByEmail(ctx, email); err == nil && other.TelegramID != user.TelegramID {
			return s.show(ctx, v, s.t(user, texts.EmailTaken), domain.Keyboard{
				domain.Row(button(s, user, texts.BtnSellerLogin, "seller_login")),
				domain.Row(button(s, user, texts.BtnCancel, "cancel")),
			})
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if err := s.State.SetStep(ctx, user.TelegramID, domain.StepSellerSolana, domain.StateFields{
			domain.StateWaitingForEmail:  nil,
			domain.StateWaitingForSolana: true,
			domain.StateSellerData:       sellerData{Email: email},
		}); err != nil {
			return err
		}
		return s.show(ctx, v, s.t(user, texts.AskSolana), cancelKeyboard(s, user))

	case domain.StepSellerSolana:
		address, err := s.Validator.SolanaAddress(text)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.InvalidSolana), cancelKeyboard(s, user))
		}
		if user.IsSeller {
			if err := s.UserRepo.UpdateSolanaAddress(ctx, user.TelegramID, address); err != nil {
				return fmt.Errorf("failed to update wallet: %w", err)
			}
			if err := s.Payouts.UpdateWallet(ctx, user.TelegramID, address); err != nil {
				return err
			}
			if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
				return err
			}
			user.SolanaAddress = &address
			s.Log.Info("seller wallet updated", "user_id", user.TelegramID)
			return s.showWallet(ctx, user, v)
		}

		var data sellerData
		if _, err := bag.Decode(domain.StateSellerData, &data); err != nil {
			return err
		}
		profile := validation.SellerProfile{Email: data.Email, SolanaAddress: address}
		if err := s.Validator.Struct(profile); err != nil {
			// черновик потерян, начинаем заново
			return s.startSellerOnboarding(ctx, user, v)
		}
		return s.becomeSeller(ctx, user, v, profile)
	}
	return s.startSellerOnboarding(ctx, user, v)
}

func (s *Service) becomeSeller(ctx context.Context, user *domain.User, v view, profile validation.SellerProfile) error {
	if err := s.UserRepo.BecomeSeller(ctx, user.TelegramID, user.FirstName, profile.Email, profile.SolanaAddress); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.show(ctx, v, s.t(user, texts.EmailTaken), cancelKeyboard(s, user))
		}
		return fmt.Errorf("failed to create seller: %w", err)
	}
	if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
		return err
	}
	user.IsSeller = true
	user.SellerName = &user.FirstName
	user.Email = &profile.Email
	user.SolanaAddress = &profile.SolanaAddress
	s.Log.Info("seller account created", "user_id", user.TelegramID)

	if s.Mailer != nil {
		if err := s.Mailer.SellerWelcome(ctx, user); err != nil {
			s.Log.Warn("failed to queue welcome email", "error", err, "user_id", user.TelegramID)
		}
	}
	return s.showDashboard(ctx, user, v)
}

func (s *Service) showDashboard(ctx context.Context, user *domain.User, v view) error {
	products, err := s.ProductRepo.ListBySeller(ctx, user.TelegramID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to list seller products: %w", err)
	}
	active := 0
	for _, p := range products {
		if p.Status == domain.ProductStatusActive {
			active++
		}
	}
	text := s.t(user, texts.Dashboard,
		escape(user.DisplayName()),
		len(products), active,
		user.TotalSales,
		user.TotalRevenue.StringFixed(2),
		s.Pricing().CommissionPercent(),
	)
	if !user.HasWallet() {
		text += "\n\n" + s.t(user, texts.WalletMissing)
	}
	kb := domain.Keyboard{
		domain.Row(button(s, user, texts.BtnAddProduct, "add_product")),
		domain.Row(button(s, user, texts.BtnMyProducts, "my_products"), button(s, user, texts.BtnWallet, "my_wallet")),
		domain.Row(button(s, user, texts.BtnPayouts, "seller_payouts"), button(s, user, texts.BtnProfile, "seller_profile")),
	}
	kb = append(kb, backKeyboard(s, user)...)
	return s.show(ctx, v, text, kb)
}

func (s *Service) startProductWizard(ctx context.Context, user *domain.User, v view) error {
	if ok, err := s.requireActive(ctx, user, v); !ok {
		return err
	}
	if err := s.State.StartFlow(ctx, user.TelegramID, domain.FlowAddProduct, domain.StepTitle, domain.StateFields{
		domain.StateAddingProduct: true,
		domain.StateProductData:   domain.ProductDraft{},
	}); err != nil {
		return err
	}
	return s.show(ctx, v, s.t(user, texts.AskTitle, domain.ProductTitleMinLen, domain.ProductTitleMaxLen), cancelKeyboard(s, user))
}

func (s *Service) saveDraft(ctx context.Context, user *domain.User, step domain.WizardStep, draft domain.ProductDraft) error {
	return s.State.SetStep(ctx, user.TelegramID, step, domain.StateFields{domain.StateProductData: draft})
}

func (s *Service) productWizardText(ctx context.Context, user *domain.User, v view, bag domain.SessionBag, text string) error {
	draft, err := state.Draft(bag)
	if err != nil {
		return err
	}

	switch bag.Step() {
	case domain.StepTitle:
		title, err := s.Validator.Title(text)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.InvalidTitle, domain.ProductTitleMinLen, domain.ProductTitleMaxLen), cancelKeyboard(s, user))
		}
		draft.Title = title
		if err := s.saveDraft(ctx, user, domain.StepDescription, draft); err != nil {
			return err
		}
		return s.show(ctx, v, s.t(user, texts.AskDescription, domain.ProductDescriptionMaxLen), cancelKeyboard(s, user))

	case domain.StepDescription:
		description, err := s.Validator.Description(text)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.InvalidDescription, domain.ProductDescriptionMaxLen), cancelKeyboard(s, user))
		}
		draft.Description = description
		if err := s.saveDraft(ctx, user, domain.StepCategory, draft); err != nil {
			return err
		}
		return s.askCategory(ctx, user, v)

	case domain.StepCategory:
		category, err := s.categoryFromText(ctx, text)
		if err != nil {
			return err
		}
		if category == nil {
			return s.askCategory(ctx, user, v)
		}
		draft.Category = category.Key
		if err := s.saveDraft(ctx, user, domain.StepPrice, draft); err != nil {
			return err
		}
		return s.askPrice(ctx, user, v)

	case domain.StepPrice:
		price, err := s.Validator.Price(text)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.InvalidPrice, domain.MinProductPrice.String(), domain.MaxProductPrice.String()), cancelKeyboard(s, user))
		}
		draft.PriceUSD = price.StringFixed(2)
		if err := s.saveDraft(ctx, user, domain.StepCover, draft); err != nil {
			return err
		}
		return s.askCover(ctx, user, v)

	case domain.StepCover:
		return s.askCover(ctx, user, v)
	case domain.StepFile:
		return s.askFile(ctx, user, v)
	}
	return s.startProductWizard(ctx, user, v)
}

func (s *Service) askCategory(ctx context.Context, user *domain.User, v view) error {
	categories, err := s.CategoryRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	var b strings.Builder
	b.WriteString(s.t(user, texts.AskCategory))
	var kb domain.Keyboard
	for i, c := range categories {
		fmt.Fprintf(&b, "\n%d. %s", i+1, escape(c.Label()))
		kb = append(kb, domain.Row(domain.CallbackButton(c.Label(), cbSetCategory(c.Key))))
	}
	kb = append(kb, cancelKeyboard(s, user)...)
	return s.show(ctx, v, b.String(), kb)
}

// categoryFromText номер из списка (с единицы) или ключ категории; nil если не распознано
func (s *Service) categoryFromText(ctx context.Context, text string) (*domain.Category, error) {
	categories, err := s.CategoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
		if n >= 1 && n <= len(categories) {
			return categories[n-1], nil
		}
		return nil, nil
	}
	for _, c := range categories {
		if strings.EqualFold(c.Key, text) || strings.EqualFold(c.Name, text) {
			return c, nil
		}
	}
	return nil, nil
}

func (s *Service) askPrice(ctx context.Context, user *domain.User, v view) error {
	return s.show(ctx, v, s.t(user, texts.AskPrice, domain.MinProductPrice.String(), domain.MaxProductPrice.String(), s.Pricing().CommissionPercent()), cancelKeyboard(s, user))
}

func (s *Service) askCover(ctx context.Context, user *domain.User, v view) error {
	return s.show(ctx, v, s.t(user, texts.AskCover), domain.Keyboard{
		domain.Row(button(s, user, texts.BtnSkipCover, "skip_cover")),
		domain.Row(button(s, user, texts.BtnCancel, "cancel")),
	})
}

func (s *Service) askFile(ctx context.Context, user *domain.User, v view) error {
	return s.show(ctx, v, s.t(user, texts.AskFile, s.Config.MaxFileSizeMB, strings.Join(s.Config.AllowedFileTypes, ", ")), cancelKeyboard(s, user))
}

// setCategory кнопка категории: шаг мастера или правка товара
func (s *Service) setCategory(ctx context.Context, user *domain.User, v view, key string) error {
	bag, err := s.State.Get(ctx, user.TelegramID)
	if err != nil {
		return err
	}
	category, err := s.CategoryRepo.GetByKey(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return s.askCategory(ctx, user, v)
	}
	if err != nil {
		return fmt.Errorf("failed to get category %s: %w", key, err)
	}

	switch {
	case bag.Flow() == domain.FlowAddProduct && bag.Step() == domain.StepCategory:
		draft, err := state.Draft(bag)
		if err != nil {
			return err
		}
		draft.Category = category.Key
		if err := s.saveDraft(ctx, user, domain.StepPrice, draft); err != nil {
			return err
		}
		return s.askPrice(ctx, user, v)
	case bag.Flow() == domain.FlowEditProduct && domain.ProductField(bag.String(domain.StateEditingField)) == domain.ProductFieldCategory:
		return s.applyProductEdit(ctx, user, v, bag.String(domain.StateEditingProduct), domain.ProductFieldCategory, category.Key)
	}
	return s.showDashboard(ctx, user, v)
}

func (s *Service) skipCover(ctx context.Context, user *domain.User, v view) error {
	bag, err := s.State.Get(ctx, user.TelegramID)
	if err != nil {
		return err
	}
	if bag.Flow() != domain.FlowAddProduct || bag.Step() != domain.StepCover {
		return s.showDashboard(ctx, user, v)
	}
	if err := s.State.SetStep(ctx, user.TelegramID, domain.StepFile, nil); err != nil {
		return err
	}
	return s.askFile(ctx, user, v)
}

func (s *Service) productCoverUpload(ctx context.Context, user *domain.User, v view, bag domain.SessionBag, msg *domain.Message) error {
	var fileID string
	switch {
	case len(msg.Photo) > 0:
		fileID = msg.Photo[len(msg.Photo)-1].FileID
	case msg.Document != nil && msg.Document.MimeType != nil && strings.HasPrefix(*msg.Document.MimeType, "image/"):
		fileID = msg.Document.FileID
	default:
		return s.askCover(ctx, user, v)
	}

	ref, err := s.Files.Save(ctx, fileID, coverFolder, "cover.jpg")
	if err != nil {
		return fmt.Errorf("failed to store cover: %w", err)
	}
	draft, err := state.Draft(bag)
	if err != nil {
		return err
	}
	draft.CoverImageURL = ref
	if err := s.saveDraft(ctx, user, domain.StepFile, draft); err != nil {
		return err
	}
	return s.askFile(ctx, user, v)
}

func (s *Service) productFileUpload(ctx context.Context, user *domain.User, v view, bag domain.SessionBag, msg *domain.Message) error {
	doc := msg.Document
	if doc == nil {
		doc = msg.Video
	}
	if doc == nil {
		return s.askFile(ctx, user, v)
	}
	name := "file"
	if doc.FileName != nil && *doc.FileName != "" {
		name = *doc.FileName
	}
	maxBytes := int64(s.Config.MaxFileSizeMB) * 1024 * 1024
	if doc.FileSize > maxBytes {
		return s.show(ctx, v, s.t(user, texts.FileTooLarge, s.Config.MaxFileSizeMB), cancelKeyboard(s, user))
	}
	if !s.Config.allowsExtension(name) {
		return s.show(ctx, v, s.t(user, texts.FileTypeRejected, strings.Join(s.Config.AllowedFileTypes, ", ")), cancelKeyboard(s, user))
	}

	draft, err := state.Draft(bag)
	if err != nil {
		return err
	}
	price, err := decimal.NewFromString(draft.PriceUSD)
	if err != nil || draft.Title == "" || draft.Category == "" {
		s.Log.Warn("incomplete product draft", "user_id", user.TelegramID, "draft", draft)
		return s.startProductWizard(ctx, user, v)
	}

	ref, err := s.Files.Save(ctx, doc.FileID, productFolder, name)
	if err != nil {
		return fmt.Errorf("failed to store product file: %w", err)
	}

	counter, err := s.Counters.Next(ctx, domain.CounterProduct)
	if err != nil {
		return fmt.Errorf("failed to allocate product id: %w", err)
	}
	now := s.Now().UTC()
	product := &domain.Product{
		ProductID:   domain.FormatSequentialID(domain.CounterProduct.Prefix(), now, counter),
		SellerID:    user.TelegramID,
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		PriceUSD:    price,
		PriceEUR:    s.Pricing().EUR(price),
		MainFileURL: ref,
		FileName:    name,
		FileSizeMB:  float64(doc.FileSize) / (1024 * 1024),
		Status:      domain.ProductStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if draft.CoverImageURL != "" {
		cover := draft.CoverImageURL
		product.CoverImageURL = &cover
	}
	if err := s.ProductRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
		return err
	}
	s.Log.Info("product created",
		"product_id", product.ProductID,
		"seller_id", user.TelegramID,
		"price_usd", product.PriceUSD.StringFixed(2),
	)

	quote := s.Pricing().Quote(price)
	return s.show(ctx, v, s.t(user, texts.ProductCreated,
		escape(product.Title),
		product.ProductID,
		price.StringFixed(2),
		quote.SellerRevenue.StringFixed(2),
	), domain.Keyboard{
		domain.Row(button(s, user, texts.BtnViewProduct, cbProduct(product.ProductID))),
		domain.Row(button(s, user, texts.BtnAddProduct, "add_product"), button(s, user, texts.BtnDashboard, "seller_dashboard")),
	})
}

func productStatusIcon(p *domain.Product) string {
	switch {
	case p.AdminLocked:
		return "🔒"
	case p.Status == domain.ProductStatusActive:
		return "🟢"
	default:
		return "⏸"
	}
}

func (s *Service) showMyProducts(ctx context.Context, user *domain.User, v view) error {
	products, err := s.ProductRepo.ListBySeller(ctx, user.TelegramID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to list seller products: %w", err)
	}
	var kb domain.Keyboard
	for _, p := range products {
		label := fmt.Sprintf("%s %s · $%s", productStatusIcon(p), truncate(p.Title, 30), p.PriceUSD.StringFixed(2))
		kb = append(kb, domain.Row(domain.CallbackButton(label, cbEditProduct(p.ProductID))))
	}
	kb = append(kb, domain.Row(button(s, user, texts.BtnAddProduct, "add_product")))
	kb = append(kb, backTo(s, user, "seller_dashboard")...)
	if len(products) == 0 {
		return s.show(ctx, v, s.t(user, texts.NoProducts), kb)
	}
	return s.show(ctx, v, s.t(user, texts.MyProducts, len(products)), kb)
}

// ownProduct товар продавца, ErrAccessDenied для чужого
func (s *Service) ownProduct(ctx context.Context, user *domain.User, productID string) (*domain.Product, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID != user.TelegramID {
		s.Log.Warn("seller tried to manage foreign product", "user_id", user.TelegramID, "product_id", productID)
		return nil, domain.ErrAccessDenied
	}
	return product, nil
}

func (s *Service) showProductManagement(ctx context.Context, user *domain.User, v view, productID string) error {
	product, err := s.ownProduct(ctx, user, productID)
	if err != nil {
		return err
	}
	status := s.t(user, texts.StatusKey(string(product.Status)))
	text := s.t(user, texts.ManageProduct,
		escape(product.Title),
		product.ProductID,
		product.PriceUSD.StringFixed(2),
		product.PriceEUR.StringFixed(2),
		status,
		product.ViewsCount,
		product.SalesCount,
		product.Rating,
	)
	if product.AdminLocked {
		text += "\n\n" + s.t(user, texts.ProductAdminLocked)
	}
	kb := domain.Keyboard{
		domain.Row(
			button(s, user, texts.BtnEditTitle, cbEditField(string(domain.ProductFieldTitle), productID)),
			button(s, user, texts.BtnEditDescription, cbEditField(string(domain.ProductFieldDescription), productID)),
		),
		domain.Row(
			button(s, user, texts.BtnEditPrice, cbEditField(string(domain.ProductFieldPrice), productID)),
			button(s, user, texts.BtnEditCategory, cbEditField(string(domain.ProductFieldCategory), productID)),
		),
	}
	if product.CanSellerToggle() {
		key := texts.BtnDeactivate
		if product.Status != domain.ProductStatusActive {
			key = texts.BtnActivate
		}
		kb = append(kb, domain.Row(button(s, user, key, cbToggleProduct(productID))))
	}
	kb = append(kb, domain.Row(button(s, user, texts.BtnDelete, cbDeleteProduct(productID))))
	kb = append(kb, backTo(s, user, "my_products")...)
	return s.show(ctx, v, text, kb)
}

func (s *Service) startEditField(ctx context.Context, user *domain.User, v view, field domain.ProductField, productID string) error {
	if ok, err := s.requireActive(ctx, user, v); !ok {
		return err
	}
	if field.Column() == "" {
		return s.showProductManagement(ctx, user, v, productID)
	}
	if _, err := s.ownProduct(ctx, user, productID); err != nil {
		return err
	}
	if err := s.State.StartFlow(ctx, user.TelegramID, domain.FlowEditProduct, "", domain.StateFields{
		domain.StateEditingProduct: productID,
		domain.StateEditingField:   string(field),
	}); err != nil {
		return err
	}

	switch field {
	case domain.ProductFieldTitle:
		return s.show(ctx, v, s.t(user, texts.AskTitle, domain.ProductTitleMinLen, domain.ProductTitleMaxLen), cancelKeyboard(s, user))
	case domain.ProductFieldDescription:
		return s.show(ctx, v, s.t(user, texts.AskDescription, domain.ProductDescriptionMaxLen), cancelKeyboard(s, user))
	case domain.ProductFieldPrice:
		return s.askPrice(ctx, user, v)
	default:
		return s.askCategory(ctx, user, v)
	}
}

func (s *Service) editProductText(ctx context.Context, user *domain.User, v view, bag domain.SessionBag, text string) error {
	productID := bag.String(domain.StateEditingProduct)
	field := domain.ProductField(bag.String(domain.StateEditingField))

	var value interface{}
	switch field {
	case domain.ProductFieldTitle:
		title, err := s.Validator.Title(text)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.InvalidTitle, domain.ProductTitleMinLen, domain.ProductTitleMaxLen), cancelKeyboard(s, user))
		}
		value = title
	case domain.ProductFieldDescription:
		description, err := s.Validator.Description(text)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.InvalidDescription, domain.ProductDescriptionMaxLen), cancelKeyboard(s, user))
		}
		value = description
	case domain.ProductFieldPrice:
		price, err := s.Validator.Price(text)
		if err != nil {
			return s.show(ctx, v, s.t(user, texts.InvalidPrice, domain.MinProductPrice.String(), domain.MaxProductPrice.String()), cancelKeyboard(s, user))
		}
		value = price
	case domain.ProductFieldCategory:
		category, err := s.categoryFromText(ctx, text)
		if err != nil {
			return err
		}
		if category == nil {
			return s.askCategory(ctx, user, v)
		}
		value = category.Key
	default:
		if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
			return err
		}
		return s.showMyProducts(ctx, user, v)
	}
	return s.applyProductEdit(ctx, user, v, productID, field, value)
}

func (s *Service) applyProductEdit(ctx context.Context, user *domain.User, v view, productID string, field domain.ProductField, value interface{}) error {
	if _, err := s.ownProduct(ctx, user, productID); err != nil {
		return err
	}
	var err error
	if price, ok := value.(decimal.Decimal); ok && field == domain.ProductFieldPrice {
		err = s.ProductRepo.UpdatePrice(ctx, productID, price, s.Pricing().EUR(price))
	} else {
		err = s.ProductRepo.UpdateField(ctx, productID, field, value)
	}
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", productID, err)
	}
	if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
		return err
	}
	s.Log.Info("product updated", "product_id", productID, "field", field, "seller_id", user.TelegramID)
	return s.showProductManagement(ctx, user, v, productID)
}

func (s *Service) toggleProduct(ctx context.Context, user *domain.User, v view, productID string) error {
	if ok, err := s.requireActive(ctx, user, v); !ok {
		return err
	}
	product, err := s.ownProduct(ctx, user, productID)
	if err != nil {
		return err
	}
	if !product.CanSellerToggle() {
		return s.show(ctx, v, s.t(user, texts.ProductAdminLocked), backTo(s, user, cbEditProduct(productID)))
	}
	next := domain.ProductStatusInactive
	if product.Status != domain.ProductStatusActive {
		next = domain.ProductStatusActive
	}
	if err := s.ProductRepo.SetStatus(ctx, productID, next, false); err != nil {
		return fmt.Errorf("failed to toggle product %s: %w", productID, err)
	}
	s.Log.Info("product toggled", "product_id", productID, "status", next)
	return s.showProductManagement(ctx, user, v, productID)
}

func (s *Service) askDeleteProduct(ctx context.Context, user *domain.User, v view, productID string) error {
	product, err := s.ownProduct(ctx, user, productID)
	if err != nil {
		return err
	}
	return s.show(ctx, v, s.t(user, texts.ConfirmDelete, escape(product.Title)), domain.Keyboard{
		domain.Row(button(s, user, texts.BtnConfirmDelete, cbConfirmDelete(productID))),
		domain.Row(button(s, user, texts.BtnCancel, cbEditProduct(productID))),
	})
}

// deleteProduct проданный товар только снимается с продажи: покупатели сохраняют доступ к файлу
func (s *Service) deleteProduct(ctx context.Context, user *domain.User, v view, productID string) error {
	product, err := s.ownProduct(ctx, user, productID)
	if err != nil {
		return err
	}
	if product.SalesCount > 0 {
		if product.Status == domain.ProductStatusActive {
			if err := s.ProductRepo.SetStatus(ctx, productID, domain.ProductStatusInactive, product.AdminLocked); err != nil {
				return fmt.Errorf("failed to deactivate product %s: %w", productID, err)
			}
		}
		return s.show(ctx, v, s.t(user, texts.ProductDeactivatedInstead), backTo(s, user, "my_products"))
	}

	if err := s.ProductRepo.Delete(ctx, productID, user.TelegramID); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", productID, err)
	}
	for _, ref := range []*string{&product.MainFileURL, product.CoverImageURL} {
		if ref == nil || *ref == "" {
			continue
		}
		if err := s.Files.Delete(ctx, *ref); err != nil {
			s.Log.Warn("failed to delete product file", "error", err, "product_id", productID)
		}
	}
	s.Log.Info("product deleted", "product_id", productID, "seller_id", user.TelegramID)
	return s.show(ctx, v, s.t(user, texts.ProductDeleted), backTo(s, user, "my_products"))
}

func (s *Service) showWallet(ctx context.Context, user *domain.User, v view) error {
	address := s.t(user, texts.NotSet)
	if user.HasWallet() {
		address = "<code>" + escape(*user.SolanaAddress) + "</code>"
	}
	return s.show(ctx, v, s.t(user, texts.Wallet, address, user.TotalRevenue.StringFixed(2)), domain.Keyboard{
		domain.Row(button(s, user, texts.BtnChangeWallet, "edit_wallet")),
		domain.Row(button(s, user, texts.BtnPayouts, "seller_payouts")),
		domain.Row(button(s, user, texts.BtnBack, "seller_dashboard")),
	})
}

func (s *Service) showSellerPayouts(ctx context.Context, user *domain.User, v view) error {
	payouts, err := s.Payouts.ListForSeller(ctx, user.TelegramID, payoutsLimit)
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString(s.t(user, texts.PayoutsHeader))
	if len(payouts) == 0 {
		b.WriteString("\n\n" + s.t(user, texts.NoPayouts))
	}
	now := s.Now().UTC()
	for _, p := range payouts {
		status := s.t(user, texts.StatusKey(string(p.Status)))
		if p.Status == domain.PayoutStatusPending && !p.IsReleasable(now) {
			status = s.t(user, texts.PayoutInEscrow, p.ReleaseAfter.UTC().Format("02.01 15:04 UTC"))
		}
		fmt.Fprintf(&b, "\n\n💸 $%s · %s\n%s", p.TotalAmountUSD.StringFixed(2), p.Currency, status)
	}
	return s.show(ctx, v, b.String(), backTo(s, user, "seller_dashboard"))
}

func (s *Service) showSellerProfile(ctx context.Context, user *domain.User, v view) error {
	email, bio := s.t(user, texts.NotSet), s.t(user, texts.NotSet)
	if user.Email != nil {
		email = escape(*user.Email)
	}
	if user.SellerBio != nil && *user.SellerBio != "" {
		bio = escape(*user.SellerBio)
	}
	return s.show(ctx, v, s.t(user, texts.SellerProfile, escape(user.DisplayName()), email, bio, user.TotalSales), domain.Keyboard{
		domain.Row(button(s, user, texts.BtnEditBio, "edit_bio"), button(s, user, texts.BtnWallet, "my_wallet")),
		domain.Row(button(s, user, texts.BtnBack, "seller_dashboard")),
	})
}

func (s *Service) editBioText(ctx context.Context, user *domain.User, v view, text string) error {
	bio, err := s.Validator.Text("bio", text, validation.BioMaxLen)
	if err != nil {
		return s.show(ctx, v, s.t(user, texts.AskBio, validation.BioMaxLen), cancelKeyboard(s, user))
	}
	if err := s.UserRepo.UpdateSellerBio(ctx, user.TelegramID, bio); err != nil {
		return fmt.Errorf("failed to update bio: %w", err)
	}
	if err := s.State.FinishFlow(ctx, user.TelegramID); err != nil {
		return err
	}
	user.SellerBio = &bio
	return s.showSellerProfile(ctx, user, v)
}
