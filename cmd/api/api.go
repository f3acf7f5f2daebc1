package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventra/docs" //required to serve the generated swagger doc
	"eventra/internal/auth"
	"eventra/internal/codes"
	"eventra/internal/domain/onboarding"
	"eventra/internal/domain/orders"
	"eventra/internal/mailer"
	"eventra/internal/notifications"
	"eventra/internal/ratelimiter"
	"eventra/internal/store"
	"eventra/internal/verification"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	push          notifications.PushSender
	verifyCodes   *verification.CodeStore
	cardCodec     *codes.CardCodec
	orderNumbers  *orders.NumberGenerator
	onboarding    *onboarding.Service
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	frontendURL string
	mail        mailConfig
	auth        authConfig
	rateLimiter ratelimiter.Config
	redisAddr   string
	cardSalt    string
	orderSecret string
}

type authConfig struct {
	basic   basicConfig
	session sessionConfig
}

type sessionConfig struct {
	secret string
	exp    time.Duration
	iss    string
	// cookieNames is the accepted credential sources in precedence order;
	// the first non-empty cookie wins.
	cookieNames []string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	mailtrap  mailTrapConfig
}

type mailTrapConfig struct {
	apiKey string
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(app.RateLimiterMiddleware)

	// Request-scoped timeout; long DB stalls surface as aborted requests,
	// callers retry idempotently.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.registerCustomerHandler)
			r.Post("/vendor/register", app.registerVendorHandler)
			r.Post("/login", app.loginHandler)
			r.Post("/logout", app.logoutHandler)
		})

		// Public vendor cards.
		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", app.listVendorCardsHandler)
			r.Get("/{cardCode}", app.getVendorCardHandler)
			r.Get("/{cardCode}/reviews", app.listVendorReviewsHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(app.SessionMiddleware)
			r.Post("/orders", app.createOrderHandler)
			r.Get("/orders", app.listMyOrdersHandler)
			r.Post("/vendors/{cardCode}/reviews", app.createVendorReviewHandler)
		})

		r.Route("/vendor", func(r chi.Router) {
			r.Use(app.SessionMiddleware)
			r.Use(app.RequireRole(auth.RoleVendor))

			r.Get("/auth/me", app.meHandler)

			r.Route("/onboarding", func(r chi.Router) {
				r.Post("/business-details", app.submitBusinessDetailsHandler)
				r.Post("/location-services", app.submitLocationServicesHandler)
				r.Post("/documents", app.submitDocumentsHandler)
				r.Post("/documents/upload", app.uploadDocumentHandler)
				r.Post("/complete", app.completeOnboardingHandler)
				r.Get("/progress", app.onboardingProgressHandler)
			})

			r.Route("/verification", func(r chi.Router) {
				r.Post("/send", app.sendVerificationCodeHandler)
				r.Post("/confirm", app.confirmVerificationCodeHandler)
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Post("/", app.createInventoryItemHandler)
				r.Get("/", app.listInventoryHandler)
				r.Post("/import", app.importInventoryHandler)
				r.Patch("/{itemID}", app.updateInventoryItemHandler)
				r.Delete("/{itemID}", app.deleteInventoryItemHandler)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", app.listVendorOrdersHandler)
				r.Patch("/{orderID}/status", app.updateOrderStatusHandler)
			})

			r.Route("/devices", func(r chi.Router) {
				r.Post("/", app.registerDeviceTokenHandler)
				r.Delete("/", app.removeDeviceTokenHandler)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.SessionMiddleware)
			r.Use(app.RequireRole(auth.RoleAdmin))

			r.Get("/vendors", app.listVendorsHandler)
			r.Post("/vendors/{vendorID}/approve", app.approveVendorHandler)
			r.Post("/vendors/{vendorID}/reject", app.rejectVendorHandler)
			r.Post("/vendors/{vendorID}/suspend", app.suspendVendorHandler)
			r.Get("/orders/export", app.exportOrdersHandler)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
