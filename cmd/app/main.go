package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sushihentaime/agencysite/internal/blogservice"
	"github.com/sushihentaime/agencysite/internal/common"
	"github.com/sushihentaime/agencysite/internal/dashboardservice"
	"github.com/sushihentaime/agencysite/internal/inquiryservice"
	"github.com/sushihentaime/agencysite/internal/mailservice"
	"github.com/sushihentaime/agencysite/internal/reviewservice"
	"github.com/sushihentaime/agencysite/internal/userservice"
)

type application struct {
	config           *Config
	logger           *slog.Logger
	userService      *userservice.UserService
	reviewService    *reviewservice.ReviewService
	blogService      *blogservice.BlogService
	inquiryService   *inquiryservice.InquiryService
	dashboardService *dashboardservice.DashboardService
	mailService      *mailservice.MailService
	broker           *common.MessageBroker
	limiter          *ipLimiter
}

func newLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func main() {
	configPath := flag.String("config", ".env", "path to the .env configuration file")
	promote := flag.String("promote", "", "grant the admin permissions to this username and exit")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)

	dsn := common.DSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	if cfg.MigrateOnStart {
		m, err := common.Migrate(cfg.MigrationsPath, dsn)
		if err != nil {
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		m.Close()
		logger.Info("database migrations applied")
	}

	db, err := common.NewDB(dsn, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBMaxIdleTime)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	if *promote != "" {
		if err := promoteUser(db, *promote, logger); err != nil {
			logger.Error("failed to promote user", slog.String("username", *promote), slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	if err := common.SetupExchanges(broker); err != nil {
		logger.Error("failed to setup the exchanges", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewCache(cfg.CacheTTL, 2*cfg.CacheTTL)
	reviewService := reviewservice.NewReviewService(db, broker, cache, logger)

	app := &application{
		config:           cfg,
		logger:           logger,
		userService:      userservice.NewUserService(db, broker),
		reviewService:    reviewService,
		blogService:      blogservice.NewBlogService(db, cache),
		inquiryService:   inquiryservice.NewInquiryService(db, broker, cache, logger),
		dashboardService: dashboardservice.NewDashboardService(db, reviewService, cache, cfg.DashboardQueryTimeout, logger),
		mailService:      mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailAdmin, cfg.MailPort, logger),
		broker:           broker,
		limiter:          newIPLimiter(cfg.LimiterRPS, cfg.LimiterBurst),
	}

	app.mailService.SendActivationEmail()
	app.mailService.SendReviewNotification()
	app.mailService.SendInquiryNotification()
	defer app.mailService.Close()

	err = app.serve()
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// promoteUser grants the admin permissions to username without starting the server.
func promoteUser(db *sql.DB, username string, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	perms, err := userservice.NewUserService(db, nil).PromoteUser(ctx, username)
	if err != nil {
		return err
	}

	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	logger.Info("user promoted", slog.String("username", username), slog.String("permissions", strings.Join(names, ",")))

	return nil
}

func (app *application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.Port),
		Handler:      app.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	stop := app.limiter.cleanup(time.Minute, 3*time.Minute)
	defer stop()

	app.logger.Info("starting api", slog.String("env", app.config.Environment), slog.String("version", app.config.Version))

	return common.Serve(srv, app.logger, app.config.TLSCertFile, app.config.TLSKeyFile, 30*time.Second)
}
