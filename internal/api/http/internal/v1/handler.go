package v1

import (
	"github.com/yemektaxi/backend/internal/config"
	"github.com/yemektaxi/backend/internal/integrity"
	"github.com/yemektaxi/backend/internal/service"
	"github.com/yemektaxi/backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

// @title YemekTaxi API
// @version 1.0
// @description Registration, verification and restaurant onboarding API

// @BasePath /api/v1

// @securityDefinitions.apikey UserAuth
// @in header
// @name Authorization

// @securityDefinitions.apikey Integrity
// @in header
// @name X-Integrity

type Handler struct {
	services     *service.Services
	tokenManager auth.TokenManager
	integrity    *integrity.Checker
	config       *config.Config
}

func NewHandler(
	services *service.Services,
	tokenManager auth.TokenManager,
	integrityChecker *integrity.Checker,
	config *config.Config,
) *Handler {
	return &Handler{
		services:     services,
		tokenManager: tokenManager,
		integrity:    integrityChecker,
		config:       config,
	}
}

func (h *Handler) Init(api *gin.RouterGroup) {
	v1 := api.Group("v1")
	if h.config.HttpServer.IntegrityEnabled {
		v1.Use(h.integrityMiddleware)
	}

	h.initAuthRoutes(v1)
	h.initVerificationRoutes(v1)
	h.initRestaurantRoutes(v1)
}
