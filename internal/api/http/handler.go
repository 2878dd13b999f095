package apiHttp

import (
	"context"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/yemektaxi/backend/docs"
	"github.com/yemektaxi/backend/pkg/auth"
	"github.com/yemektaxi/backend/pkg/limiter"
	"github.com/yemektaxi/backend/pkg/logger"
	"github.com/yemektaxi/backend/pkg/validator"

	internalV1 "github.com/yemektaxi/backend/internal/api/http/internal/v1"
	"github.com/yemektaxi/backend/internal/config"
	"github.com/yemektaxi/backend/internal/integrity"
	"github.com/yemektaxi/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const healthTimeout = 2 * time.Second

// refreshTokenPath carries the refresh token in the query string on GET.
const refreshTokenPath = "/api/v1/RefreshToken"

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	services     *service.Services
	tokenManager auth.TokenManager
	integrity    *integrity.Checker
	config       *config.Config
	db           Pinger
	redis        redis.UniversalClient
}

func NewHandlers(
	services *service.Services,
	tokenManager auth.TokenManager,
	integrityChecker *integrity.Checker,
	cfg *config.Config,
	db Pinger,
	redisClient redis.UniversalClient,
) *Handler {
	return &Handler{
		services:     services,
		tokenManager: tokenManager,
		integrity:    integrityChecker,
		config:       cfg,
		db:           db,
		redis:        redisClient,
	}
}

func (h *Handler) Init(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	validator.RegisterGinValidator()

	router.Use(
		ginzap.GinzapWithConfig(logger.Logger(), &ginzap.Config{
			TimeFormat:   time.RFC3339,
			UTC:          true,
			SkipPaths:    []string{refreshTokenPath},
			DefaultLevel: zapcore.InfoLevel,
		}),
		accessLogWithoutQuery(refreshTokenPath),
		limiter.Limit(cfg.Limiter.RPS, cfg.Limiter.Burst, cfg.Limiter.TTL),
		corsMiddleware(cfg.HttpServer.AllowedOrigins),
	)
	router.Use(ginzap.RecoveryWithZap(logger.Logger(), true))

	if cfg.HttpServer.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.NewHandler(), ginSwagger.InstanceName("internal")))
	}

	router.GET("/health", h.health)

	h.initAPI(router)

	return router
}

func (h *Handler) initAPI(router *gin.Engine) {
	internalHandlersV1 := internalV1.NewHandler(h.services, h.tokenManager, h.integrity, h.config)
	api := router.Group("/api")
	internalHandlersV1.Init(api)
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// @Summary Health
// @Tags Health
// @Description Reports database and redis reachability
// @ModuleID health
// @Produce  json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok", Redis: "ok"}
	status := http.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			logger.Error("health: database ping failed", zap.Error(err))
			resp.Database, resp.Status, status = "down", "degraded", http.StatusServiceUnavailable
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			logger.Error("health: redis ping failed", zap.Error(err))
			resp.Redis, resp.Status, status = "down", "degraded", http.StatusServiceUnavailable
		}
	}

	c.JSON(status, resp)
}
