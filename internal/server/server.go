package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/auth"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/config"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/handlers"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/notifications"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/orders"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/planner"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/repository"
	"github.com/eimantasp123/fitrone-back-end-sub000/internal/timewindow"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, db *pgxpool.Pool, hub *notifications.Hub, resolver *timewindow.Resolver) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)

	planRepo := repository.NewWeeklyPlanRepository(db)
	templateRepo := repository.NewMenuTemplateRepository(db)
	orderRepo := repository.NewDayOrderRepository(db)
	stockRepo := repository.NewStockRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	mealRepo := repository.NewMealRepository(db)

	plannerService := planner.NewService(planRepo, templateRepo, orderRepo, customerRepo, mealRepo, resolver, hub, logger)
	orderService := orders.NewService(orderRepo, stockRepo, hub, logger)

	planHandler := handlers.NewWeeklyPlanHandler(plannerService)
	orderHandler := handlers.NewDayOrderHandler(orderService)
	ingredientsHandler := handlers.NewIngredientsHandler(orderService)
	stockHandler := handlers.NewStockHandler(stockRepo)
	templateHandler := handlers.NewMenuTemplateHandler(templateRepo)
	mealHandler := handlers.NewMealHandler(mealRepo)
	notificationHandler := handlers.NewNotificationHandler(hub)

	registerRoutes(
		e,
		planHandler,
		orderHandler,
		ingredientsHandler,
		stockHandler,
		templateHandler,
		mealHandler,
		notificationHandler,
		auth.JWTMiddleware(tokenManager),
		apiRateLimiter(cfg.Auth),
	)

	return e
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

// requestValidator подключает go-playground/validator к Echo: запросы
// проверяются по validate-тегам структур в обработчиках.
type requestValidator struct {
	validate *validator.Validate
}

// Validate запускает проверку структуры по тегам.
func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func apiRateLimiter(cfg config.AuthConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
