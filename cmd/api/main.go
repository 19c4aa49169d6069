package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/batuwa-travels/travel-api/internal/config"
	"github.com/batuwa-travels/travel-api/internal/logging"
	"github.com/batuwa-travels/travel-api/internal/media"
	"github.com/batuwa-travels/travel-api/internal/metrics"
	"github.com/batuwa-travels/travel-api/internal/reports"
	storage "github.com/batuwa-travels/travel-api/internal/repository/minio"
	"github.com/batuwa-travels/travel-api/internal/repository/postgres"
	"github.com/batuwa-travels/travel-api/internal/service"
	transport "github.com/batuwa-travels/travel-api/internal/transport/http"
	"github.com/batuwa-travels/travel-api/internal/transport/mail"
	"github.com/batuwa-travels/travel-api/internal/util"
)

func main() {
	cfg := config.Load()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	var logstash *logging.LogstashWriter
	if cfg.LogstashTCPAddr != "" {
		w, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("logstash: disabled: %v", err)
		} else {
			logstash = w
			log.SetOutput(io.MultiWriter(os.Stdout, w))
			m.TrackDroppedLogLines(w.Dropped)
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	if cfg.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := postgres.Migrate(migrateCtx, db)
		cancel()
		if err != nil {
			log.Fatalf("migrate database: %v", err)
		}
	}

	minioClient, err := storage.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		log.Fatalf("connect object storage: %v", err)
	}
	objects := storage.NewStorage(minioClient, cfg.MinIOPublicURL)
	bucketCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := objects.EnsureBucket(bucketCtx, cfg.MinIOBucketUploads); err != nil {
		log.Printf("object storage: %v", err)
	}
	cancel()

	var (
		bookingNotifier service.BookingNotifier
		inquiryNotifier service.InquiryNotifier
	)
	mailer := mail.NewNotificationMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.NotifyEmail, cfg.SMTPUseTLS)
	if mailer.Enabled() {
		bookingNotifier = mailer
		inquiryNotifier = mailer
	} else {
		log.Println("mail: staff notifications disabled")
	}

	admins := postgres.NewAdminRepo(db)
	sessions := postgres.NewAdminSessionRepo(db)
	tours := postgres.NewTourRepo(db)
	bookings := postgres.NewBookingRepo(db)

	activity := service.NewActivityRecorder(postgres.NewActivityLogRepo(db), m)
	authSvc := service.NewAuthService(admins, sessions, util.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL), activity)
	adminSvc := service.NewAdminService(admins, sessions, activity)
	tourSvc := service.NewTourService(tours, activity)
	voucherSvc := service.NewVoucherService(postgres.NewVoucherRepo(db), activity, m)
	settingsSvc := service.NewSettingsService(postgres.NewSettingsRepo(db), activity)
	bookingSvc := service.NewBookingService(bookings, tours, voucherSvc, settingsSvc, activity, service.BookingServiceConfig{
		Notifier: bookingNotifier,
		Observer: m,
		Exporter: reports.NewBookingExporter(),
	})
	reviewSvc := service.NewReviewService(postgres.NewReviewRepo(db), tours, activity)
	blogSvc := service.NewBlogService(postgres.NewBlogRepo(db), activity)
	gallerySvc := service.NewGalleryService(postgres.NewGalleryRepo(db), objects, activity, service.GalleryServiceConfig{
		Bucket:            cfg.MinIOBucketUploads,
		MaxUploadBytes:    cfg.UploadMaxBytes,
		ImageProcessor:    media.NewImagingProcessor(cfg.UploadMaxDimension),
		ImageMaxDimension: cfg.UploadMaxDimension,
	})
	userSvc := service.NewUserService(postgres.NewUserRepo(db), bookings, activity)
	inquirySvc := service.NewInquiryService(postgres.NewInquiryRepo(db), activity, inquiryNotifier)
	dashboardSvc := service.NewDashboardService(postgres.NewDashboardRepo(db))

	bootCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	created, err := adminSvc.EnsureBootstrapAdmin(bootCtx, cfg.BootstrapUsername, cfg.BootstrapEmail, cfg.BootstrapPassword)
	cancel()
	if err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}
	if created {
		log.Printf("bootstrap: created super_admin %s", cfg.BootstrapUsername)
	}

	limiterStore, err := transport.NewLimiterStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("rate limiter: %v", err)
	}
	loginLimit, err := transport.RateLimit(limiterStore, "login", cfg.LoginRateLimit)
	if err != nil {
		log.Fatalf("rate limiter: %v", err)
	}
	publicLimit, err := transport.RateLimit(limiterStore, "public", cfg.PublicRateLimit)
	if err != nil {
		log.Fatalf("rate limiter: %v", err)
	}

	e := transport.NewRouter(transport.RouterConfig{
		AllowOrigins: cfg.AllowOrigins,
		BodyLimit:    fmt.Sprintf("%dK", cfg.UploadMaxBytes/1024+1024),
		Metrics:      m,
	})
	transport.RegisterSwagger(e, cfg.SwaggerSpecPath)
	transport.RegisterAuth(e, authSvc, loginLimit)
	transport.RegisterAdmins(e, authSvc, adminSvc)
	transport.RegisterTours(e, authSvc, tourSvc)
	transport.RegisterVouchers(e, authSvc, voucherSvc, publicLimit)
	transport.RegisterBookings(e, authSvc, bookingSvc, publicLimit)
	transport.RegisterReviews(e, authSvc, reviewSvc, publicLimit)
	transport.RegisterContent(e, authSvc, blogSvc, gallerySvc)
	transport.RegisterUsers(e, authSvc, userSvc)
	transport.RegisterInquiries(e, authSvc, inquirySvc, publicLimit)
	transport.RegisterSettings(e, authSvc, settingsSvc)
	transport.RegisterActivity(e, authSvc, activity, dashboardSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if err := db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
	if logstash != nil {
		log.SetOutput(os.Stdout)
		_ = logstash.Close()
	}

	log.Println("Server stopped")
}
