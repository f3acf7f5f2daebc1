package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"eventra/internal/auth"
	"eventra/internal/codes"
	"eventra/internal/db"
	"eventra/internal/domain/onboarding"
	"eventra/internal/domain/orders"
	"eventra/internal/mailer"
	"eventra/internal/notifications"
	"eventra/internal/ratelimiter"
	"eventra/internal/store"
	"eventra/internal/verification"

	"github.com/9ssi7/exponent"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "0.3.0"

// loadRateLimiterConfig retrieves rate limiter settings from environment variables.
func loadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// newLogger creates a zap console logger with colored levels.
func newLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

//	@title			Eventra API
//	@description	API for Eventra, a multi-vendor event-services marketplace.

//	@BasePath	/v1

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	maxConns, err := strconv.Atoi(os.Getenv("DB_MAX_CONNS"))
	if err != nil {
		log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
	}

	// The session secret is process-wide configuration; running without it
	// would make every credential unverifiable, so die now rather than 401
	// every request later.
	sessionSecret := os.Getenv("AUTH_SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("AUTH_SESSION_SECRET must be set")
	}

	cfg := config{
		addr:        os.Getenv("ADDR"),
		env:         os.Getenv("ENV"),
		frontendURL: os.Getenv("FRONTEND_URL"),
		apiURL:      os.Getenv("EXTERNAL_URL"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    maxConns,
			maxIdleTime: os.Getenv("DB_MAX_IDLE_TIME"),
		},
		mail: mailConfig{
			fromEmail: os.Getenv("MAIL_FROM_EMAIL"),
			mailtrap: mailTrapConfig{
				apiKey: os.Getenv("MAILTRAP_API_KEY"),
			},
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			session: sessionConfig{
				secret:      sessionSecret,
				exp:         time.Hour * 24 * 7, // 7 days
				iss:         "Eventra",
				cookieNames: []string{"vendor-token", "vendorToken"}, // current, then legacy
			},
		},
		rateLimiter: loadRateLimiterConfig(),
		redisAddr:   os.Getenv("REDIS_ADDR"),
		cardSalt:    os.Getenv("CARD_CODE_SALT"),
		orderSecret: os.Getenv("ORDER_NUMBER_SECRET"),
	}

	logger, err := newLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	pool, err := db.New(cfg.db.addr, int32(cfg.db.maxConns), cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	storage := store.NewStorage(pool)

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		logger.Fatal(err)
	}

	mailtrap, err := mailer.NewMailTrapClient(cfg.mail.mailtrap.apiKey, cfg.mail.fromEmail)
	if err != nil {
		logger.Fatal(err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.redisAddr})

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	sessionAuth := auth.NewJWTAuthenticator(
		cfg.auth.session.secret,
		cfg.auth.session.iss,
		cfg.auth.session.iss,
		cfg.auth.session.exp,
	)

	cardCodec, err := codes.NewCardCodec(cfg.cardSalt)
	if err != nil {
		logger.Fatal(err)
	}

	expoClient := exponent.NewClient()

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         storage,
		cld:           cld,
		mailer:        mailtrap,
		authenticator: sessionAuth,
		rateLimiter:   rateLimiter,
		push:          notifications.NewExpoSender(expoClient),
		verifyCodes:   verification.NewCodeStore(rdb, verification.DefaultTTL),
		cardCodec:     cardCodec,
		orderNumbers:  orders.NewNumberGenerator(cfg.orderSecret),
		onboarding:    onboarding.NewService(storage.Onboarding, storage.Vendors, logger),
	}

	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
