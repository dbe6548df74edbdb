package app

import (
	"context"
	"fmt"
	"net/http"

	server "github.com/admin/tg-bots/market-bot/internal/adapters/primary/http"
	healthcheckController "github.com/admin/tg-bots/market-bot/internal/adapters/primary/http/controllers/healthcheck"
	ipnController "github.com/admin/tg-bots/market-bot/internal/adapters/primary/http/controllers/ipn"
	telegramController "github.com/admin/tg-bots/market-bot/internal/adapters/primary/http/controllers/telegram"
	"github.com/admin/tg-bots/market-bot/internal/adapters/primary/http/middlewares"
	kafkaConsumerAdapter "github.com/admin/tg-bots/market-bot/internal/adapters/primary/kafka"
	kafkaHandlers "github.com/admin/tg-bots/market-bot/internal/adapters/primary/kafka/handlers"
	alerterAdapter "github.com/admin/tg-bots/market-bot/internal/adapters/secondary/alerter"
	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/email"
	kafkaAdapter "github.com/admin/tg-bots/market-bot/internal/adapters/secondary/kafka"
	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/payment/nowpayments"
	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/qr"
	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/s3"
	tgAdapter "github.com/admin/tg-bots/market-bot/internal/adapters/secondary/telegram"
	"github.com/admin/tg-bots/market-bot/internal/ports/cache"
	kafkaPort "github.com/admin/tg-bots/market-bot/internal/ports/kafka"
	"github.com/admin/tg-bots/market-bot/internal/ports/repository"
	"github.com/admin/tg-bots/market-bot/internal/ports/service"
	"github.com/admin/tg-bots/market-bot/internal/ports/session"
	"github.com/admin/tg-bots/market-bot/internal/ports/storage"
	categoryRepo "github.com/admin/tg-bots/market-bot/internal/repository/category"
	orderRepo "github.com/admin/tg-bots/market-bot/internal/repository/order"
	payoutRepo "github.com/admin/tg-bots/market-bot/internal/repository/payout"
	productRepo "github.com/admin/tg-bots/market-bot/internal/repository/product"
	reviewRepo "github.com/admin/tg-bots/market-bot/internal/repository/review"
	supportRepo "github.com/admin/tg-bots/market-bot/internal/repository/support"
	userRepo "github.com/admin/tg-bots/market-bot/internal/repository/user"
	alerterService "github.com/admin/tg-bots/market-bot/internal/services/alerter"
	"github.com/admin/tg-bots/market-bot/internal/services/files"
	jobScheduler "github.com/admin/tg-bots/market-bot/internal/services/jobs"
	"github.com/admin/tg-bots/market-bot/internal/services/state"
	telegramService "github.com/admin/tg-bots/market-bot/internal/services/telegram"
	"github.com/admin/tg-bots/market-bot/internal/usecases/market"
	"github.com/admin/tg-bots/market-bot/internal/usecases/notification"
	paymentUsecase "github.com/admin/tg-bots/market-bot/internal/usecases/payment"
	payoutUsecase "github.com/admin/tg-bots/market-bot/internal/usecases/payout"
	"github.com/go-redis/redis_rate/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Dependencies struct {
	DB              *sqlx.DB
	HTTPServer      *http.Server
	TelegramService *telegramService.Service
	TelegramClient  *tgAdapter.Client
	TelegramPoller  *tgAdapter.Poller
	KafkaProducer   *kafkaAdapter.Producer
	KafkaConsumer   *kafkaConsumerAdapter.Consumer
	Cache           cache.Cache
	JobScheduler    *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	db, err := a.initPostgres()
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	repos := a.initRepositories(db)
	store := a.initStorage()

	tgClient := tgAdapter.NewClient(a.Cfg.Telegram.BotToken, a.Log)
	tgService := telegramService.New(tgClient, nil, a.Log)
	if err := a.registerBotCommands(ctx, tgClient); err != nil {
		a.Log.Warn("failed to register bot commands", "error", err)
	}

	alerter := alerterService.New(alerterAdapter.NewClient(a.Cfg.Alerter, tgClient, a.Log), a.Cfg.Alerter.DedupWindow, a.Log)

	pricing, err := a.Cfg.Market.Pricing()
	if err != nil {
		return nil, err
	}

	emailSender := email.NewChain(a.Cfg.Email, a.Log)
	producer, consumer, err := a.initKafka(emailSender)
	if err != nil {
		return nil, fmt.Errorf("failed to init kafka: %w", err)
	}
	var eventProducer kafkaPort.IKafkaProducer
	if producer != nil {
		eventProducer = producer
	}

	mailer, err := notification.New(emailSender, eventProducer, pricing, a.Cfg.Market.Escrow(), a.Cfg.Market.SupportEmail, a.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to init notifications: %w", err)
	}

	gateway := nowpayments.NewClient(a.Cfg.NOWPayments, a.Log)
	payouts := payoutUsecase.New(repos.Payout, repos.User, alerter, nil, a.Cfg.Market.Escrow(), a.Log)
	payments := paymentUsecase.New(
		repos.Order,
		repos.Product,
		repos.User,
		repos.Counters,
		gateway,
		qr.NewGenerator(),
		store.Locker,
		payouts,
		alerter,
		pricing,
		a.Cfg.Market.PaymentWindow,
		a.Cfg.NOWPayments.Currencies,
		a.Log,
	)

	marketService := market.New(
		repos.User,
		repos.Product,
		repos.Order,
		repos.Category,
		repos.Review,
		repos.Support,
		repos.Counters,
		tgService,
		state.NewManager(store.Sessions, a.Log),
		files.NewStore(store.Objects, tgClient, a.Log),
		payments,
		payouts,
		mailer,
		store.Cache,
		alerter,
		market.Config{
			AdminID:          a.Cfg.Market.AdminID,
			MaxFileSizeMB:    a.Cfg.Market.MaxFileSizeMB,
			AllowedFileTypes: a.Cfg.Market.AllowedFileTypes,
			SupportEmail:     a.Cfg.Market.SupportEmail,
			DefaultLocale:    a.Cfg.Market.DefaultLocale,
		},
		a.Log,
	)

	// доставка и уведомления живут в слое бота, который сам зависит от платежей
	payments.SetDelivery(marketService, marketService)
	payouts.SetNotifier(marketService)
	tgService.SetHandler(marketService)

	httpServer := a.initHTTP(db, store, tgService, alerter, gateway, payments)
	poller, err := a.initTelegramMode(ctx, tgService, tgClient)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram mode: %w", err)
	}

	scheduler := a.initJobScheduler(alerter, payouts, payments)

	return &Dependencies{
		DB:              db,
		HTTPServer:      httpServer,
		TelegramService: tgService,
		TelegramClient:  tgClient,
		TelegramPoller:  poller,
		KafkaProducer:   producer,
		KafkaConsumer:   consumer,
		Cache:           store.Cache,
		JobScheduler:    scheduler,
	}, nil
}

// repositories содержит инициализированные репозитории
type repositories struct {
	User     repository.IUserRepo
	Product  repository.IProductRepo
	Order    repository.IOrderRepo
	Category repository.ICategoryRepo
	Review   repository.IReviewRepo
	Support  repository.ISupportRepo
	Payout   repository.IPayoutRepo
	Counters repository.ICounterRepo
}

// initRepositories инициализирует репозитории для работы с БД
func (a *App) initRepositories(db *sqlx.DB) *repositories {
	persistenceLayer := pg.NewDB(db)
	return &repositories{
		User:     userRepo.New(persistenceLayer, a.Log),
		Product:  productRepo.New(persistenceLayer, a.Log),
		Order:    orderRepo.New(persistenceLayer, a.Log),
		Category: categoryRepo.New(persistenceLayer, a.Log),
		Review:   reviewRepo.New(persistenceLayer, a.Log),
		Support:  supportRepo.New(persistenceLayer, a.Log),
		Payout:   payoutRepo.New(persistenceLayer, a.Log),
		Counters: categoryRepo.NewCounters(persistenceLayer, a.Log),
	}
}

// storageLayer хранилища с запасным вариантом в памяти
type storageLayer struct {
	Redis    *redis.Client
	Cache    cache.Cache
	Locker   cache.Locker
	Sessions session.Store
	Objects  storage.IS3Client
}

// initStorage redis и s3 опциональны: без redis состояние живёт в памяти процесса,
// без s3 файлы хранятся как file_id телеграма
func (a *App) initStorage() *storageLayer {
	layer := &storageLayer{}

	if a.Cfg.Redis.Enabled {
		redisClient, err := a.Cfg.Redis.NewConnection()
		if err != nil {
			a.Log.Warn("failed to init redis, falling back to in-memory state", "error", err)
		} else {
			layer.Redis = redisClient
			layer.Cache = redisAdapter.NewClient(redisClient)
			layer.Locker = redisAdapter.NewLocker(redisClient)
			layer.Sessions = redisAdapter.NewSessionStore(redisClient, a.Cfg.Redis.SessionTTL())
			a.Log.Info("redis connected successfully")
		}
	}
	if layer.Redis == nil {
		memory := inmemory.NewCache()
		layer.Cache = memory
		layer.Locker = memory
		layer.Sessions = inmemory.NewSessionStore()
	}

	if a.Cfg.S3.Enabled {
		minioClient, err := a.Cfg.S3.NewClient()
		if err != nil {
			a.Log.Warn("failed to init s3, product files stay in telegram", "error", err)
		} else {
			layer.Objects = s3Adapter.NewClient(minioClient, a.Cfg.S3, a.Log)
			a.Log.Info("s3 storage connected", "bucket", a.Cfg.S3.Bucket)
		}
	}

	return layer
}

// initKafka без брокеров письма уходят напрямую из процесса
func (a *App) initKafka(sender service.IEmailSender) (*kafkaAdapter.Producer, *kafkaConsumerAdapter.Consumer, error) {
	if !a.Cfg.Kafka.Enabled() {
		a.Log.Info("kafka is not configured, emails are sent in-process")
		return nil, nil, nil
	}

	producer, err := kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
	if err != nil {
		a.Log.Warn("failed to create kafka producer, emails are sent in-process", "error", err)
		return nil, nil, nil
	}

	consumer, err := kafkaConsumerAdapter.NewConsumer(a.Cfg.Kafka, kafkaHandlers.NewNotificationHandler(sender, a.Log), a.Log)
	if err != nil {
		_ = producer.Close()
		return nil, nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	return producer, consumer, nil
}

// initHTTP инициализирует HTTP сервер и контроллеры
func (a *App) initHTTP(
	db *sqlx.DB,
	store *storageLayer,
	tgService *telegramService.Service,
	alerter service.IAlerterService,
	verifier ipnController.Verifier,
	processor ipnController.Processor,
) *http.Server {
	health := healthcheckController.New(db, a.Log)

	var limiter *redis_rate.Limiter
	if store.Redis != nil {
		limiter = redis_rate.NewLimiter(store.Redis)
		health.WithCheck("redis", healthcheckController.PingFunc(func(ctx context.Context) error {
			return store.Redis.Ping(ctx).Err()
		}))
	}

	rateLimit := middlewares.RateLimit(
		limiter,
		"ipn",
		redis_rate.PerMinute(a.Cfg.Server.IPNRateLimitPerMinute),
		a.Log,
	)

	controllers := []server.Controller{
		health,
		telegramController.New(tgService, a.Cfg.Telegram.WebhookSecret, a.Log),
		ipnController.New(a.Cfg.Server.IPNPath, verifier, processor, a.Log, rateLimit),
	}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, alerter, controllers...)
}

// initTelegramMode инициализирует режим работы Telegram (webhook или polling)
func (a *App) initTelegramMode(
	ctx context.Context,
	tgService *telegramService.Service,
	client *tgAdapter.Client,
) (*tgAdapter.Poller, error) {
	a.Log.Info("telegram configuration",
		"use_webhook", a.Cfg.Telegram.IsWebhookEnabled(),
		"webhook_url", a.Cfg.Telegram.WebhookURL,
	)

	if a.Cfg.Telegram.IsWebhookEnabled() {
		if a.Cfg.Telegram.WebhookURL == "" {
			return nil, fmt.Errorf("webhook_url is required when use_webhook is true")
		}
		webhookURL := fmt.Sprintf("%s/webhook/", a.Cfg.Telegram.WebhookURL)
		if err := client.SetWebhook(ctx, webhookURL, a.Cfg.Telegram.WebhookSecret); err != nil {
			return nil, fmt.Errorf("failed to set webhook: %w", err)
		}
		return nil, nil
	}

	a.Log.Warn("polling mode enabled - this should only be used for local development")
	return tgAdapter.NewPoller(client, a.Cfg.Telegram, tgService.HandleUpdate, a.Log), nil
}

// initJobScheduler эскроу выплат и просроченные счета
func (a *App) initJobScheduler(
	alerter service.IAlerterService,
	payouts jobScheduler.PayoutReleaser,
	orders jobScheduler.OrderExpirer,
) *jobScheduler.Scheduler {
	scheduler := jobScheduler.NewScheduler(a.Log, alerter)

	scheduler.Register(jobScheduler.NewPayoutReleaseJob(payouts, a.Log))
	a.Log.Info("payout release job registered")

	scheduler.Register(jobScheduler.NewPaymentExpireJob(orders, a.Log))
	a.Log.Info("payment expire job registered")

	return scheduler
}

// registerBotCommands регистрирует команды бота в Telegram
func (a *App) registerBotCommands(ctx context.Context, client *tgAdapter.Client) error {
	commands := []tgAdapter.BotCommand{
		{Command: "start", Description: "Menu principal"},
		{Command: "library", Description: "Mes formations"},
		{Command: "sell", Description: "Vendre une formation"},
		{Command: "support", Description: "Support"},
		{Command: "help", Description: "Aide"},
		{Command: "cancel", Description: "Annuler l'action en cours"},
	}

	return client.SetMyCommands(ctx, commands)
}

// initPostgres инициализирует подключение к PostgreSQL и запускает миграции
func (a *App) initPostgres() (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if !a.Cfg.Postgres.MigrateOnStart {
		return db, nil
	}
	if err := pg.RunMigrations(db, a.Log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
