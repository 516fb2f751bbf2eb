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
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers/get_available_slots"
	getAvailableStaffHandler "github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers/get_available_staff"
	getBookingHandler "github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers/get_booking"
	getBusinessBookingsHandler "github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers/get_business_bookings"
	getBusinessConfigHandler "github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers/get_business_config"
	getBusinessConfigsHandler "github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers/get_business_configs"
	getCustomerBookingsHandler "github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers/get_customer_bookings"
	rescheduleBookingHandler "github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers/update_booking_status"
	updateBusinessConfigHandler "github.com/sahabranjbar-dev/reservito-booking-service/internal/api/handlers/update_business_config"
	"github.com/sahabranjbar-dev/reservito-booking-service/internal/api/middleware"
	"github.com/sahabranjbar-dev/reservito-booking-service/internal/config"
	"github.com/sahabranjbar-dev/reservito-booking-service/internal/infra/cache"
	bookingRepo "github.com/sahabranjbar-dev/reservito-booking-service/internal/infra/storage/booking"
	businessRepo "github.com/sahabranjbar-dev/reservito-booking-service/internal/infra/storage/business"
	configRepo "github.com/sahabranjbar-dev/reservito-booking-service/internal/infra/storage/config"
	serviceRepo "github.com/sahabranjbar-dev/reservito-booking-service/internal/infra/storage/service"
	staffRepo "github.com/sahabranjbar-dev/reservito-booking-service/internal/infra/storage/staff"
	identityClient "github.com/sahabranjbar-dev/reservito-booking-service/internal/integrations/identityservice"
	bookingsService "github.com/sahabranjbar-dev/reservito-booking-service/internal/service/bookings"
	configService "github.com/sahabranjbar-dev/reservito-booking-service/internal/service/config"
	createBookingUC "github.com/sahabranjbar-dev/reservito-booking-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/sahabranjbar-dev/reservito-booking-service/internal/usecase/get_available_slots"
	getAvailableStaffUC "github.com/sahabranjbar-dev/reservito-booking-service/internal/usecase/get_available_staff"
	rescheduleBookingUC "github.com/sahabranjbar-dev/reservito-booking-service/internal/usecase/reschedule_booking"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/dbmetrics"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/logger"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/metrics"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/simpletxmanager"
	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/txmanager"
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

	log.Info("Starting Reservito-BookingService...")
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

	// Подключаемся к Redis для кеша слотов (опционально)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Failed to ping redis, slots cache disabled: %v", err)
			redisClient = nil
		} else {
			log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
			defer redisClient.Close()
		}
	}
	slotsCache := cache.NewSlotsCache(
		redisClient,
		time.Duration(cfg.Redis.SlotsTTLSecs)*time.Second,
		log,
	)

	// Инициализируем клиент IdentityService
	identity := identityClient.NewClient(
		cfg.IdentityService.URL,
		time.Duration(cfg.IdentityService.Timeout)*time.Second,
		log,
	)
	log.Info("IdentityService client initialized (url=%s, timeout=%ds)",
		cfg.IdentityService.URL, cfg.IdentityService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		businessRepository *businessRepo.Repository
		staffRepository    *staffRepo.Repository
		serviceRepository  *serviceRepo.Repository
		configRepository   *configRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		businessRepository = businessRepo.NewRepository(wrappedDB)
		staffRepository = staffRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		configRepository = configRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		businessRepository = businessRepo.NewRepository(db)
		staffRepository = staffRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		configRepository = configRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		businessRepository,
		slotsCache,
		log,
	)
	configSvc := configService.NewService(
		configRepository,
		businessRepository,
		serviceRepository,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		businessRepository,
		serviceRepository,
		staffRepository,
		bookingRepository,
		configRepository,
		identity,
		slotsCache,
		txMgr,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		businessRepository,
		staffRepository,
		configRepository,
		slotsCache,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		businessRepository,
		serviceRepository,
		staffRepository,
		bookingRepository,
		configRepository,
		slotsCache,
		log,
	)
	getAvailableStaffUseCase := getAvailableStaffUC.NewUseCase(
		businessRepository,
		serviceRepository,
		staffRepository,
		bookingRepository,
		configRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableStaff := getAvailableStaffHandler.NewHandler(getAvailableStaffUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessConfig := getBusinessConfigHandler.NewHandler(configSvc, log)
	getBusinessConfigs := getBusinessConfigsHandler.NewHandler(configSvc, log)
	updateBusinessConfig := updateBusinessConfigHandler.NewHandler(configSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов для записи
	api.HandleFunc("/businesses/{businessId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Подбор свободных сотрудников на конкретный слот
	api.HandleFunc("/businesses/{businessId}/available-staff",
		getAvailableStaff.Handle).Methods(http.MethodGet)

	// Получение эффективной конфигурации бронирования бизнеса
	api.HandleFunc("/businesses/{businessId}/config",
		getBusinessConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Перенос бронирования на другой слот
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Обновление статуса бронирования (для владельца бизнеса)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований текущего пользователя
	protected.HandleFunc("/users/me/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (для владельцев) ---
	// Список бронирований бизнеса
	protected.HandleFunc("/businesses/{businessId}/bookings", getBusinessBookings.Handle).Methods(http.MethodGet)

	// Обновление конфигурации бронирования
	protected.HandleFunc("/businesses/{businessId}/config", updateBusinessConfig.Handle).Methods(http.MethodPut)

	// Список всех конфигураций бизнеса (business-wide и по услугам)
	protected.HandleFunc("/businesses/{businessId}/configs", getBusinessConfigs.Handle).Methods(http.MethodGet)

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
