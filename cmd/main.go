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

	completeStudentHandler "github.com/m04kA/DS-BookingService/internal/api/handlers/complete_student"
	createBookingHandler "github.com/m04kA/DS-BookingService/internal/api/handlers/create_booking"
	decideBookingHandler "github.com/m04kA/DS-BookingService/internal/api/handlers/decide_booking"
	getAvailableDatesHandler "github.com/m04kA/DS-BookingService/internal/api/handlers/get_available_dates"
	getAvailableSlotsHandler "github.com/m04kA/DS-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/DS-BookingService/internal/api/handlers/get_booking"
	getMyBookingsHandler "github.com/m04kA/DS-BookingService/internal/api/handlers/get_my_bookings"
	getStudentProfileHandler "github.com/m04kA/DS-BookingService/internal/api/handlers/get_student_profile"
	listBookingsHandler "github.com/m04kA/DS-BookingService/internal/api/handlers/list_bookings"
	searchStudentHandler "github.com/m04kA/DS-BookingService/internal/api/handlers/search_student"
	updateBookingFeesHandler "github.com/m04kA/DS-BookingService/internal/api/handlers/update_booking_fees"
	updateStudentProfileHandler "github.com/m04kA/DS-BookingService/internal/api/handlers/update_student_profile"
	"github.com/m04kA/DS-BookingService/internal/api/middleware"
	"github.com/m04kA/DS-BookingService/internal/config"
	"github.com/m04kA/DS-BookingService/internal/infra/migrations"
	bookingRepo "github.com/m04kA/DS-BookingService/internal/infra/storage/booking"
	studentRepo "github.com/m04kA/DS-BookingService/internal/infra/storage/student"
	bookingsService "github.com/m04kA/DS-BookingService/internal/service/bookings"
	studentsService "github.com/m04kA/DS-BookingService/internal/service/students"
	getAvailableDatesUC "github.com/m04kA/DS-BookingService/internal/usecase/get_available_dates"
	getAvailableSlotsUC "github.com/m04kA/DS-BookingService/internal/usecase/get_available_slots"
	submitBookingUC "github.com/m04kA/DS-BookingService/internal/usecase/submit_booking"
	"github.com/m04kA/DS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DS-BookingService/pkg/logger"
	"github.com/m04kA/DS-BookingService/pkg/metrics"
	"github.com/m04kA/DS-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/DS-BookingService/pkg/txmanager"
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

	log.Info("Starting DS-BookingService...")
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

	// Применяем миграции
	if err := migrations.Up(context.Background(), db); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	log.Info("Database migrations applied")

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		studentRepository *studentRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		studentRepository = studentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		studentRepository = studentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	studentSvc := studentsService.NewService(
		studentRepository,
		cfg.Auth.CertificateBaseURL,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	submitBookingUseCase := submitBookingUC.NewUseCase(
		bookingRepository,
		studentSvc,
		txMgr,
		log,
	)
	getAvailableDatesUseCase := getAvailableDatesUC.NewUseCase(bookingRepository, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(bookingRepository, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(submitBookingUseCase, log)
	getAvailableDates := getAvailableDatesHandler.NewHandler(getAvailableDatesUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getStudentProfile := getStudentProfileHandler.NewHandler(studentSvc, log)
	updateStudentProfile := updateStudentProfileHandler.NewHandler(studentSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getMyBookings := getMyBookingsHandler.NewHandler(bookingSvc, log)
	decideBooking := decideBookingHandler.NewHandler(bookingSvc, log)
	updateBookingFees := updateBookingFeesHandler.NewHandler(bookingSvc, log)
	searchStudent := searchStudentHandler.NewHandler(studentSvc, log)
	completeStudent := completeStudentHandler.NewHandler(studentSvc, log)

	// Аутентификация
	auth := middleware.NewAuth(cfg.Auth.JWTSecret, cfg.Auth.AdminUIDs, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные даты за период
	api.HandleFunc("/booking/available-dates", getAvailableDates.Handle).Methods(http.MethodGet)

	// Сетка слотов на дату
	api.HandleFunc("/booking/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют bearer-токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Authenticate)

	// Подача заявки на слот и собственные заявки
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/me", getMyBookings.Handle).Methods(http.MethodGet)

	// Собственный профиль студента
	protected.HandleFunc("/students/me", getStudentProfile.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/students/me", updateStudentProfile.Handle).Methods(http.MethodPut)

	// ============================================================
	// ADMIN ROUTES (bearer-токен + allow-list)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Authenticate, auth.RequireAdmin)

	// Заявки
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}/decision", decideBooking.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}/fees", updateBookingFees.Handle).Methods(http.MethodPut)

	// Студенты
	admin.HandleFunc("/students", searchStudent.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/students/{studentId}/complete", completeStudent.Handle).Methods(http.MethodPost)

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
