package texts

var catalog = map[Key]entry{
	Welcome: {
		fr: "👋 Bonjour %s !\n\nBienvenue sur la marketplace de formations. Achetez des formations en crypto ou vendez les vôtres.",
		en: "👋 Hello %s!\n\nWelcome to the course marketplace. Buy courses with crypto or sell your own.",
	},
	Help: {
		fr: "ℹ️ <b>Aide</b>\n\n🛒 Acheter : parcourez les catégories, payez en crypto, le fichier arrive ici.\n🏪 Vendre : créez un compte vendeur, ajoutez une formation. Commission plateforme : %s%%.\n📚 Bibliothèque : retéléchargez vos achats.\n🆘 Support : ouvrez un ticket.\n\n/start menu · /cancel annuler",
		en: "ℹ️ <b>Help</b>\n\n🛒 Buy: browse categories, pay with crypto, the file arrives here.\n🏪 Sell: create a seller account, add a course. Platform commission: %s%%.\n📚 Library: download your purchases again.\n🆘 Support: open a ticket.\n\n/start menu · /cancel cancel",
	},
	UnknownCommand:    {fr: "Commande inconnue. Utilisez le menu.", en: "Unknown command. Use the menu."},
	UnknownAction:     {fr: "Action inconnue", en: "Unknown action"},
	UseMenu:           {fr: "Utilisez les boutons du menu 👇", en: "Use the menu buttons 👇"},
	UploadNotExpected: {fr: "Je n'attends pas de fichier pour le moment.", en: "I am not expecting a file right now."},
	GenericError: {
		fr: "❌ Une erreur est survenue. Réessayez ou contactez le support.",
		en: "❌ Something went wrong. Try again or contact support.",
	},
	InvalidInput:       {fr: "❌ Saisie invalide : %s", en: "❌ Invalid input: %s"},
	AccountSuspended:   {fr: "⛔ Votre compte est suspendu. Contactez le support.", en: "⛔ Your account is suspended. Contact support."},
	GatewayUnavailable: {fr: "⚠️ Le service de paiement ne répond pas. Réessayez dans quelques minutes.", en: "⚠️ The payment service is not responding. Try again in a few minutes."},
	AccessDenied:       {fr: "⛔ Accès refusé.", en: "⛔ Access denied."},
	NotSet:             {fr: "non renseigné", en: "not set"},

	BuyMenu:            {fr: "🛒 <b>Acheter une formation</b>\n\nNouveautés :", en: "🛒 <b>Buy a course</b>\n\nLatest:"},
	ChooseCategory:     {fr: "📂 Choisissez une catégorie :", en: "📂 Choose a category:"},
	CategoryHeader:     {fr: "📂 <b>%s</b> · page %d", en: "📂 <b>%s</b> · page %d"},
	CategoryEmpty:      {fr: "📂 <b>%s</b>\n\nAucune formation pour le moment.", en: "📂 <b>%s</b>\n\nNo courses yet."},
	ProductNotFound:    {fr: "❌ Formation introuvable.", en: "❌ Course not found."},
	ProductUnavailable: {fr: "❌ Cette formation n'est plus disponible.", en: "❌ This course is no longer available."},
	ProductCard: {
		fr: "📘 <b>%s</b>\n👤 %s\n💵 $%s (≈ %s €)\n⭐ %.1f (%d avis) · %d ventes\n\n%s\n\n<code>%s</code>",
		en: "📘 <b>%s</b>\n👤 %s\n💵 $%s (≈ €%s)\n⭐ %.1f (%d reviews) · %d sales\n\n%s\n\n<code>%s</code>",
	},
	ProductPreview: {fr: "👀 <b>%s</b>\n\n%s\n\n📦 %.1f Mo", en: "👀 <b>%s</b>\n\n%s\n\n📦 %.1f MB"},
	ReviewsHeader:  {fr: "⭐ <b>%s</b>\nNote %.1f · %d avis", en: "⭐ <b>%s</b>\nRating %.1f · %d reviews"},
	NoReviews:      {fr: "Aucun avis pour le moment.", en: "No reviews yet."},
	SearchPrompt: {
		fr: "🔍 Envoyez un titre ou un identifiant de formation (TBF-...).",
		en: "🔍 Send a course title or id (TBF-...).",
	},
	SearchTooShort:  {fr: "Au moins 2 caractères.", en: "At least 2 characters."},
	SearchNoResults: {fr: "🔍 Aucun résultat pour « %s ».", en: "🔍 No results for \"%s\"."},
	SearchResults:   {fr: "🔍 « %s » : %d résultat(s)", en: "🔍 \"%s\": %d result(s)"},
	OwnProduct:      {fr: "C'est votre propre formation.", en: "This is your own course."},
	AlreadyOwned:    {fr: "✅ Vous possédez déjà cette formation. Elle est dans votre bibliothèque.", en: "✅ You already own this course. It is in your library."},
	ChooseCurrency: {
		fr: "💳 <b>%s</b>\n\nPrix : $%s\nFrais de traitement : $%s\n<b>Total : $%s</b>\n\nChoisissez la crypto :",
		en: "💳 <b>%s</b>\n\nPrice: $%s\nProcessing fee: $%s\n<b>Total: $%s</b>\n\nChoose a cryptocurrency:",
	},

	PaymentDetails: {
		fr: "🧾 Commande <code>%s</code>\n📘 %s\n\nEnvoyez exactement <b>%s %s</b> à :\n<code>%s</code>\n\nTotal : $%s · valable jusqu'à %s\nLe fichier est envoyé automatiquement après confirmation.",
		en: "🧾 Order <code>%s</code>\n📘 %s\n\nSend exactly <b>%s %s</b> to:\n<code>%s</code>\n\nTotal: $%s · valid until %s\nThe file is sent automatically once confirmed.",
	},
	OrderNotFound: {fr: "❌ Commande introuvable.", en: "❌ Order not found."},
	OrderNotPaid:  {fr: "⏳ Cette commande n'est pas encore payée.", en: "⏳ This order is not paid yet."},
	PaymentMissingID: {
		fr: "⚠️ La commande %s n'a pas de paiement associé. Contactez le support.",
		en: "⚠️ Order %s has no payment attached. Please contact support.",
	},
	PaymentAlreadyCompleted: {fr: "✅ Paiement déjà confirmé.", en: "✅ Payment already confirmed."},
	PaymentConfirming:       {fr: "⏳ Commande %s : transaction détectée, en attente de confirmations.", en: "⏳ Order %s: transaction detected, waiting for confirmations."},
	PaymentExpired:          {fr: "⌛ Commande %s : délai de paiement dépassé. Si vous avez payé, vérifiez à nouveau.", en: "⌛ Order %s: payment window expired. If you already paid, check again."},
	PaymentFailed:           {fr: "❌ Commande %s : paiement échoué.", en: "❌ Order %s: payment failed."},
	PaymentWaiting:          {fr: "⏳ Commande %s : paiement pas encore reçu.", en: "⏳ Order %s: payment not received yet."},
	PurchaseConfirmed: {
		fr: "🎉 Paiement confirmé pour <b>%s</b> !\nCommande <code>%s</code>. Votre fichier vient d'être envoyé.",
		en: "🎉 Payment confirmed for <b>%s</b>!\nOrder <code>%s</code>. Your file has just been sent.",
	},
	PurchaseConfirmedNoFile: {
		fr: "🎉 Paiement confirmé pour <b>%s</b> !\nCommande <code>%s</code>. L'envoi du fichier a échoué, utilisez le bouton ci-dessous.",
		en: "🎉 Payment confirmed for <b>%s</b>!\nOrder <code>%s</code>. The file could not be sent, use the button below.",
	},
	FileCaption:   {fr: "📘 %s\nCommande %s", en: "📘 %s\nOrder %s"},
	LibraryEmpty:  {fr: "📚 Votre bibliothèque est vide.", en: "📚 Your library is empty."},
	LibraryHeader: {fr: "📚 Vos formations (%d) :", en: "📚 Your courses (%d):"},

	ReviewNotBuyer:       {fr: "Seuls les acheteurs peuvent laisser un avis.", en: "Only buyers can leave a review."},
	ReviewChooseRating:   {fr: "⭐ Votre note :", en: "⭐ Your rating:"},
	ReviewCommentPrompt:  {fr: "✍️ Ajoutez un commentaire, ou envoyez « - » pour ne garder que la note.", en: "✍️ Add a comment, or send \"-\" to keep only the rating."},
	ReviewCommentTooLong: {fr: "Commentaire trop long (500 caractères max).", en: "Comment too long (500 characters max)."},
	ReviewDuplicate:      {fr: "Vous avez déjà noté cette formation.", en: "You have already reviewed this course."},
	ReviewThanks:         {fr: "🙏 Merci pour votre avis !", en: "🙏 Thanks for your review!"},

	SellIntro: {
		fr: "🏪 <b>Vendre vos formations</b>\n\nCommission plateforme : %s%%. Paiements en SOL après 24 h de séquestre.",
		en: "🏪 <b>Sell your courses</b>\n\nPlatform commission: %s%%. Payouts in SOL after a 24h escrow.",
	},
	AskEmail:      {fr: "📧 Votre adresse e-mail :", en: "📧 Your email address:"},
	InvalidEmail:  {fr: "❌ E-mail invalide, réessayez.", en: "❌ Invalid email, try again."},
	EmailTaken:    {fr: "Cet e-mail est déjà utilisé par un vendeur. Connectez-vous.", en: "This email is already used by a seller. Log in instead."},
	AskSolana:     {fr: "👛 Votre adresse Solana pour les paiements :", en: "👛 Your Solana address for payouts:"},
	InvalidSolana: {fr: "❌ Adresse Solana invalide, réessayez.", en: "❌ Invalid Solana address, try again."},
	Dashboard: {
		fr: "🏪 <b>%s</b>\n\nFormations : %d (%d actives)\nVentes : %d\nRevenus : $%s\nCommission : %s%%",
		en: "🏪 <b>%s</b>\n\nCourses: %d (%d active)\nSales: %d\nRevenue: $%s\nCommission: %s%%",
	},
	WalletMissing: {fr: "⚠️ Aucune adresse Solana : vos paiements sont bloqués.", en: "⚠️ No Solana address: your payouts are on hold."},
	Wallet:        {fr: "👛 <b>Portefeuille</b>\n\nAdresse : %s\nRevenus totaux : $%s", en: "👛 <b>Wallet</b>\n\nAddress: %s\nTotal revenue: $%s"},
	SellerProfile: {
		fr: "👤 <b>%s</b>\n📧 %s\n📝 %s\n🛍 %d ventes",
		en: "👤 <b>%s</b>\n📧 %s\n📝 %s\n🛍 %d sales",
	},
	AskBio: {fr: "📝 Votre bio (%d caractères max) :", en: "📝 Your bio (%d characters max):"},
	NewSale: {
		fr: "💰 <b>Nouvelle vente !</b>\n📘 %s\n\nPrix : $%s\nCommission : $%s (%s%%)\n<b>Revenu : $%s</b>\n\nPaiement disponible après %s.",
		en: "💰 <b>New sale!</b>\n📘 %s\n\nPrice: $%s\nCommission: $%s (%s%%)\n<b>Revenue: $%s</b>\n\nPayout available after %s.",
	},

	AskTitle:           {fr: "📘 Titre de la formation (%d à %d caractères) :", en: "📘 Course title (%d to %d characters):"},
	InvalidTitle:       {fr: "❌ Le titre doit faire entre %d et %d caractères.", en: "❌ The title must be %d to %d characters."},
	AskDescription:     {fr: "📝 Description (%d caractères max) :", en: "📝 Description (%d characters max):"},
	InvalidDescription: {fr: "❌ Description vide ou trop longue (%d max).", en: "❌ Description empty or too long (%d max)."},
	AskCategory:        {fr: "📂 Catégorie (numéro ou bouton) :", en: "📂 Category (number or button):"},
	AskPrice: {
		fr: "💵 Prix en USD (de %s à %s). La commission de %s%% est déduite de votre revenu.",
		en: "💵 Price in USD (%s to %s). The %s%% commission is deducted from your revenue.",
	},
	InvalidPrice:     {fr: "❌ Prix invalide : entre %s et %s, deux décimales max.", en: "❌ Invalid price: between %s and %s, two decimals max."},
	AskCover:         {fr: "🖼 Envoyez une image de couverture ou passez.", en: "🖼 Send a cover image or skip."},
	AskFile:          {fr: "📦 Envoyez le fichier de la formation (%d Mo max, types : %s).", en: "📦 Send the course file (%d MB max, types: %s)."},
	FileTooLarge:     {fr: "❌ Fichier trop volumineux (%d Mo max).", en: "❌ File too large (%d MB max)."},
	FileTypeRejected: {fr: "❌ Type de fichier non accepté. Types : %s", en: "❌ File type not accepted. Types: %s"},
	ProductCreated: {
		fr: "✅ <b>%s</b> est en vente !\nID : <code>%s</code>\nPrix : $%s · votre revenu : $%s",
		en: "✅ <b>%s</b> is on sale!\nID: <code>%s</code>\nPrice: $%s · your revenue: $%s",
	},
	NoProducts: {fr: "Vous n'avez pas encore de formation.", en: "You have no courses yet."},
	MyProducts: {fr: "📦 Vos formations (%d) :", en: "📦 Your courses (%d):"},
	ManageProduct: {
		fr: "📘 <b>%s</b>\n<code>%s</code>\n💵 $%s (≈ %s €) · %s\n👁 %d vues · 🛍 %d ventes · ⭐ %.1f",
		en: "📘 <b>%s</b>\n<code>%s</code>\n💵 $%s (≈ €%s) · %s\n👁 %d views · 🛍 %d sales · ⭐ %.1f",
	},
	ProductAdminLocked:        {fr: "🔒 Formation bloquée par l'administrateur.", en: "🔒 Course locked by the administrator."},
	ConfirmDelete:             {fr: "🗑 Supprimer <b>%s</b> ?", en: "🗑 Delete <b>%s</b>?"},
	ProductDeleted:            {fr: "🗑 Formation supprimée.", en: "🗑 Course deleted."},
	ProductDeactivatedInstead: {fr: "Cette formation a des acheteurs : elle est retirée de la vente mais reste accessible.", en: "This course has buyers: it is taken off sale but stays available to them."},

	PayoutsHeader:     {fr: "💸 <b>Vos paiements</b>", en: "💸 <b>Your payouts</b>"},
	NoPayouts:         {fr: "Aucun paiement pour le moment.", en: "No payouts yet."},
	PayoutInEscrow:    {fr: "🔒 En séquestre jusqu'au %s", en: "🔒 In escrow until %s"},
	PayoutReleased:    {fr: "💸 Séquestre terminé : $%s (%s) seront envoyés sous peu.", en: "💸 Escrow finished: $%s (%s) will be sent shortly."},
	PayoutSent:        {fr: "✅ Paiement de $%s envoyé en %s.", en: "✅ Payout of $%s sent in %s."},
	PayoutAlreadyDone: {fr: "Ce paiement est déjà traité.", en: "This payout is already processed."},
	PayoutMarkedDone:  {fr: "✅ Paiement %s ($%s) marqué comme envoyé.", en: "✅ Payout %s ($%s) marked as sent."},

	AdminMenu: {fr: "🛠 <b>Administration</b>", en: "🛠 <b>Administration</b>"},
	AdminStats: {
		fr: "📊 <b>Statistiques</b>\n\nUtilisateurs : %d (vendeurs : %d)\nFormations : %d (actives : %d)\nVentes : %d · volume $%s · commission $%s\nPaiements en attente : %d ($%s)\nTickets ouverts : %d",
		en: "📊 <b>Statistics</b>\n\nUsers: %d (sellers: %d)\nCourses: %d (active: %d)\nSales: %d · volume $%s · commission $%s\nPending payouts: %d ($%s)\nOpen tickets: %d",
	},
	AdminUsers: {fr: "👥 Utilisateurs · page %d", en: "👥 Users · page %d"},
	AdminUserCard: {
		fr: "👤 <b>%s</b>\nID : <code>%d</code> · %s\nStatut : %s\nVendeur : %t\nVentes : %d · $%s\n",
		en: "👤 <b>%s</b>\nID: <code>%d</code> · %s\nStatus: %s\nSeller: %t\nSales: %d · $%s\n",
	},
	UserNotFound:            {fr: "Utilisateur introuvable.", en: "User not found."},
	YouWereSuspended:        {fr: "⛔ Votre compte a été suspendu par l'administrateur.", en: "⛔ Your account was suspended by the administrator."},
	YouWereRestored:         {fr: "✅ Votre compte a été rétabli.", en: "✅ Your account was restored."},
	AdminProducts:           {fr: "📦 Dernières formations (%d) :", en: "📦 Latest courses (%d):"},
	ProductModerated:        {fr: "✅ %s : %s", en: "✅ %s: %s"},
	ProductSuspendedByAdmin: {fr: "🔒 Votre formation « %s » a été suspendue par l'administrateur.", en: "🔒 Your course \"%s\" was suspended by the administrator."},
	ProductRestoredByAdmin:  {fr: "✅ Votre formation « %s » est de nouveau en vente.", en: "✅ Your course \"%s\" is on sale again."},
	AdminPayouts:            {fr: "💸 <b>Paiements en attente</b> (%d)", en: "💸 <b>Pending payouts</b> (%d)"},
	AdminTickets:            {fr: "🎫 Tickets ouverts (%d) :", en: "🎫 Open tickets (%d):"},

	SupportMenu: {
		fr: "🆘 <b>Support</b>\n\nOuvrez un ticket ou écrivez à %s.",
		en: "🆘 <b>Support</b>\n\nOpen a ticket or write to %s.",
	},
	AskTicketSubject:       {fr: "🎫 Sujet de votre demande :", en: "🎫 Subject of your request:"},
	AskTicketMessage:       {fr: "✍️ Votre message :", en: "✍️ Your message:"},
	AskTicketMessageSeller: {fr: "✍️ Votre message au vendeur de « %s » :", en: "✍️ Your message to the seller of \"%s\":"},
	InvalidText:            {fr: "❌ Texte vide ou trop long (%d max).", en: "❌ Text empty or too long (%d max)."},
	TicketCreated:          {fr: "✅ Ticket <code>%s</code> créé. Nous vous répondons ici.", en: "✅ Ticket <code>%s</code> created. We will answer here."},
	NoTickets:              {fr: "Aucun ticket.", en: "No tickets."},
	MyTickets:              {fr: "🎫 Vos tickets (%d) :", en: "🎫 Your tickets (%d):"},
	TicketNotFound:         {fr: "Ticket introuvable.", en: "Ticket not found."},
	TicketHeader:           {fr: "🎫 <code>%s</code> · <b>%s</b>\nStatut : %s", en: "🎫 <code>%s</code> · <b>%s</b>\nStatus: %s"},
	TicketClosed:           {fr: "Ce ticket est fermé.", en: "This ticket is closed."},
	TicketEscalatedNotice:  {fr: "🚨 Ticket %s escaladé : %s", en: "🚨 Ticket %s escalated: %s"},

	RecoveryAskEmail:    {fr: "🔑 E-mail de votre compte vendeur :", en: "🔑 Email of your seller account:"},
	RecoveryCodeSent:    {fr: "📧 Si un compte existe, un code à 6 chiffres a été envoyé (valable %d min). Saisissez-le :", en: "📧 If an account exists, a 6-digit code was sent (valid %d min). Enter it:"},
	RecoveryBadCode:     {fr: "❌ Code incorrect.", en: "❌ Wrong code."},
	RecoveryCodeExpired: {fr: "⌛ Code expiré ou trop d'essais. Recommencez.", en: "⌛ Code expired or too many attempts. Start again."},
	RecoveryAskPassword: {fr: "🔒 Nouveau mot de passe (8 caractères min) :", en: "🔒 New password (at least 8 characters):"},
	InvalidPassword:     {fr: "❌ Le mot de passe doit faire entre 8 et 72 caractères.", en: "❌ The password must be 8 to 72 characters."},
	LoginAskEmail:       {fr: "🔑 E-mail du compte vendeur :", en: "🔑 Seller account email:"},
	LoginAskPassword:    {fr: "🔒 Mot de passe :", en: "🔒 Password:"},
	LoginFailed:         {fr: "❌ E-mail ou mot de passe incorrect.", en: "❌ Wrong email or password."},
	AlreadySeller:       {fr: "Ce compte Telegram a déjà un profil vendeur.", en: "This Telegram account already has a seller profile."},

	"status_active":        {fr: "🟢 active", en: "🟢 active"},
	"status_inactive":      {fr: "⏸ inactive", en: "⏸ inactive"},
	"status_suspended":     {fr: "⛔ suspendue", en: "⛔ suspended"},
	"status_banned":        {fr: "🚫 bannie", en: "🚫 banned"},
	"status_pending":       {fr: "⏳ en attente", en: "⏳ pending"},
	"status_ready":         {fr: "💸 prêt à envoyer", en: "💸 ready to send"},
	"status_completed":     {fr: "✅ envoyé", en: "✅ sent"},
	"status_open":          {fr: "📨 ouvert", en: "📨 open"},
	"status_pending_user":  {fr: "⏳ attente utilisateur", en: "⏳ waiting for user"},
	"status_pending_admin": {fr: "⏳ attente support", en: "⏳ waiting for support"},
	"status_escalated":     {fr: "🚨 escaladé", en: "🚨 escalated"},
	"status_closed":        {fr: "✅ fermé", en: "✅ closed"},
	"status_user":          {fr: "Utilisateur", en: "User"},
	"status_seller":        {fr: "Vendeur", en: "Seller"},
	"status_admin":         {fr: "Support", en: "Support"},

	BtnBuy:             {fr: "🛒 Acheter", en: "🛒 Buy"},
	BtnSell:            {fr: "🏪 Vendre", en: "🏪 Sell"},
	BtnLibrary:         {fr: "📚 Bibliothèque", en: "📚 Library"},
	BtnSupport:         {fr: "🆘 Support", en: "🆘 Support"},
	BtnAdmin:           {fr: "🛠 Admin", en: "🛠 Admin"},
	BtnMainMenu:        {fr: "🏠 Menu", en: "🏠 Menu"},
	BtnBack:            {fr: "⬅️ Retour", en: "⬅️ Back"},
	BtnCancel:          {fr: "✖️ Annuler", en: "✖️ Cancel"},
	BtnCategories:      {fr: "📂 Catégories", en: "📂 Categories"},
	BtnSearch:          {fr: "🔍 Rechercher", en: "🔍 Search"},
	BtnSearchAgain:     {fr: "🔍 Nouvelle recherche", en: "🔍 New search"},
	BtnBuyFor:          {fr: "💳 Acheter $%s", en: "💳 Buy $%s"},
	BtnPreview:         {fr: "👀 Aperçu", en: "👀 Preview"},
	BtnReviews:         {fr: "⭐ Avis", en: "⭐ Reviews"},
	BtnContactSeller:   {fr: "✉️ Contacter le vendeur", en: "✉️ Contact seller"},
	BtnCheckPayment:    {fr: "🔄 Vérifier le paiement", en: "🔄 Check payment"},
	BtnDownload:        {fr: "📥 Télécharger", en: "📥 Download"},
	BtnReview:          {fr: "⭐ Noter", en: "⭐ Rate"},
	BtnBecomeSeller:    {fr: "✨ Devenir vendeur", en: "✨ Become a seller"},
	BtnSellerLogin:     {fr: "🔑 Connexion vendeur", en: "🔑 Seller login"},
	BtnRecovery:        {fr: "🔁 Récupérer mon compte", en: "🔁 Recover my account"},
	BtnAddProduct:      {fr: "➕ Ajouter une formation", en: "➕ Add a course"},
	BtnMyProducts:      {fr: "📦 Mes formations", en: "📦 My courses"},
	BtnWallet:          {fr: "👛 Portefeuille", en: "👛 Wallet"},
	BtnChangeWallet:    {fr: "✏️ Changer d'adresse", en: "✏️ Change address"},
	BtnPayouts:         {fr: "💸 Paiements", en: "💸 Payouts"},
	BtnProfile:         {fr: "👤 Profil", en: "👤 Profile"},
	BtnDashboard:       {fr: "🏪 Tableau de bord", en: "🏪 Dashboard"},
	BtnEditBio:         {fr: "📝 Modifier la bio", en: "📝 Edit bio"},
	BtnSkipCover:       {fr: "⏭ Passer", en: "⏭ Skip"},
	BtnViewProduct:     {fr: "👀 Voir la formation", en: "👀 View course"},
	BtnEditTitle:       {fr: "✏️ Titre", en: "✏️ Title"},
	BtnEditDescription: {fr: "✏️ Description", en: "✏️ Description"},
	BtnEditPrice:       {fr: "✏️ Prix", en: "✏️ Price"},
	BtnEditCategory:    {fr: "✏️ Catégorie", en: "✏️ Category"},
	BtnActivate:        {fr: "▶️ Activer", en: "▶️ Activate"},
	BtnDeactivate:      {fr: "⏸ Désactiver", en: "⏸ Deactivate"},
	BtnDelete:          {fr: "🗑 Supprimer", en: "🗑 Delete"},
	BtnConfirmDelete:   {fr: "🗑 Oui, supprimer", en: "🗑 Yes, delete"},
	BtnAdminMenu:       {fr: "🛠 Menu admin", en: "🛠 Admin menu"},
	BtnAdminStats:      {fr: "📊 Statistiques", en: "📊 Statistics"},
	BtnAdminUsers:      {fr: "👥 Utilisateurs", en: "👥 Users"},
	BtnAdminProducts:   {fr: "📦 Formations", en: "📦 Courses"},
	BtnAdminPayouts:    {fr: "💸 Paiements", en: "💸 Payouts"},
	BtnAdminTickets:    {fr: "🎫 Tickets", en: "🎫 Tickets"},
	BtnSuspendUser:     {fr: "⛔ Suspendre", en: "⛔ Suspend"},
	BtnRestoreUser:     {fr: "♻️ Rétablir", en: "♻️ Restore"},
	BtnCreateTicket:    {fr: "🎫 Nouveau ticket", en: "🎫 New ticket"},
	BtnMyTickets:       {fr: "📨 Mes tickets", en: "📨 My tickets"},
	BtnViewTicket:      {fr: "🎫 Ouvrir le ticket", en: "🎫 Open ticket"},
	BtnReply:           {fr: "✍️ Répondre", en: "✍️ Reply"},
	BtnCloseTicket:     {fr: "✅ Fermer", en: "✅ Close"},
	BtnEscalate:        {fr: "🚨 Escalader", en: "🚨 Escalate"},
}
