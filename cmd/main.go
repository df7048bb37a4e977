package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	acceptBookingHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/accept_booking"
	acceptProposalHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/accept_proposal"
	cancelBookingHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/create_booking"
	createProposalsHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/create_proposals"
	getBookingHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/get_customer_bookings"
	getPerformerBookingsHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/get_performer_bookings"
	getPlatformConfigHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/get_platform_config"
	getProposalsHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/get_proposals"
	markNoShowHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/mark_no_show"
	paymentWebhookHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/payment_webhook"
	priceQuoteHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/price_quote"
	rejectBookingHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/reject_booking"
	rejectProposalHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/reject_proposal"
	updatePlatformConfigHandler "github.com/m0rozko/DMP-BookingService/internal/api/handlers/update_platform_config"
	"github.com/m0rozko/DMP-BookingService/internal/api/middleware"
	"github.com/m0rozko/DMP-BookingService/internal/config"
	"github.com/m0rozko/DMP-BookingService/internal/events"
	bookingRepo "github.com/m0rozko/DMP-BookingService/internal/infra/storage/booking"
	proposalRepo "github.com/m0rozko/DMP-BookingService/internal/infra/storage/proposal"
	settingsRepo "github.com/m0rozko/DMP-BookingService/internal/infra/storage/settings"
	webhookLogRepo "github.com/m0rozko/DMP-BookingService/internal/infra/storage/webhooklog"
	notifyServiceClient "github.com/m0rozko/DMP-BookingService/internal/integrations/notifyservice"
	profileServiceClient "github.com/m0rozko/DMP-BookingService/internal/integrations/profileservice"
	"github.com/m0rozko/DMP-BookingService/internal/notifier"
	"github.com/m0rozko/DMP-BookingService/internal/scheduler"
	bookingsService "github.com/m0rozko/DMP-BookingService/internal/service/bookings"
	platformConfigService "github.com/m0rozko/DMP-BookingService/internal/service/platformconfig"
	"github.com/m0rozko/DMP-BookingService/internal/service/pricing"
	acceptProposalUC "github.com/m0rozko/DMP-BookingService/internal/usecase/accept_proposal"
	createBookingUC "github.com/m0rozko/DMP-BookingService/internal/usecase/create_booking"
	processWebhookUC "github.com/m0rozko/DMP-BookingService/internal/usecase/process_webhook"
	"github.com/m0rozko/DMP-BookingService/pkg/dbmetrics"
	"github.com/m0rozko/DMP-BookingService/pkg/logger"
	"github.com/m0rozko/DMP-BookingService/pkg/metrics"
	"github.com/m0rozko/DMP-BookingService/pkg/simpletxmanager"
	"github.com/m0rozko/DMP-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting DMP-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProfileService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.ProfileService.URL, cfg.ProfileService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository    *bookingRepo.Repository
		proposalRepository   *proposalRepo.Repository
		settingsRepository   *settingsRepo.Repository
		webhookLogRepository *webhookLogRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		proposalRepository = proposalRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		webhookLogRepository = webhookLogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		proposalRepository = proposalRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		webhookLogRepository = webhookLogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Калькулятор цен с кэшированной ставкой комиссии
	pricingCalculator := pricing.NewCalculator(settingsRepository, log)

	// Диспетчер доменных событий и подписчик-нотификатор
	dispatcher := events.NewDispatcher(log)
	dispatcher.Subscribe(notifier.New(profileClient, notifyClient, log))

	// Инициализируем сервисы
	bookingSvc := bookingsService.New(
		bookingRepository,
		proposalRepository,
		dispatcher,
		log,
	)
	platformConfigSvc := platformConfigService.New(
		settingsRepository,
		pricingCalculator,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		profileClient,
		pricingCalculator,
		dispatcher,
		log,
	)
	acceptProposalUseCase := acceptProposalUC.NewUseCase(
		bookingRepository,
		proposalRepository,
		dispatcher,
		txMgr,
		log,
	)
	processWebhookUseCase := processWebhookUC.NewUseCase(
		bookingRepository,
		webhookLogRepository,
		dispatcher,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getPerformerBookings := getPerformerBookingsHandler.NewHandler(bookingSvc, log)
	acceptBooking := acceptBookingHandler.NewHandler(bookingSvc, log)
	rejectBooking := rejectBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	markNoShow := markNoShowHandler.NewHandler(bookingSvc, log)
	createProposals := createProposalsHandler.NewHandler(bookingSvc, log)
	getProposals := getProposalsHandler.NewHandler(bookingSvc, log)
	acceptProposal := acceptProposalHandler.NewHandler(acceptProposalUseCase, log)
	rejectProposal := rejectProposalHandler.NewHandler(bookingSvc, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(processWebhookUseCase, log)
	getPlatformConfig := getPlatformConfigHandler.NewHandler(platformConfigSvc, log)
	updatePlatformConfig := updatePlatformConfigHandler.NewHandler(platformConfigSvc, log)
	priceQuote := priceQuoteHandler.NewHandler(pricingCalculator, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Конфигурация ценообразования платформы
	api.HandleFunc("/config", getPlatformConfig.Handle).Methods(http.MethodGet)

	// Расчёт цены до создания заявки
	api.HandleFunc("/pricing/quote", priceQuote.Handle).Methods(http.MethodGet)

	// Колбэки платёжного шлюза (аутентификация на уровне gateway)
	api.HandleFunc("/payments/webhook", paymentWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Заявки ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/accept", acceptBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reject", rejectBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/no-show", markNoShow.Handle).Methods(http.MethodPatch)

	// --- Встречные предложения ---
	protected.HandleFunc("/bookings/{bookingId}/proposals", createProposals.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/proposals", getProposals.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/proposals/{proposalId}/accept", acceptProposal.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/proposals/{proposalId}/reject", rejectProposal.Handle).Methods(http.MethodPatch)

	// --- История бронирований ---
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/performers/{performerId}/bookings", getPerformerBookings.Handle).Methods(http.MethodGet)

	// --- Администрирование ---
	protected.HandleFunc("/config", updatePlatformConfig.Handle).Methods(http.MethodPut)

	// Планировщик автозавершения заявок
	var autoCompleter *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		autoCompleter = scheduler.New(
			bookingSvc,
			time.Duration(cfg.Scheduler.Interval)*time.Second,
			log,
		)
		autoCompleter.Start()
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем планировщик
	if autoCompleter != nil {
		autoCompleter.Stop()
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
