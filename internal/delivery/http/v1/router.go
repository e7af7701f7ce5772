package v1

import (
	"net/http"

	"hirepath-backend/config"
	"hirepath-backend/internal/delivery/http/middleware"
	"hirepath-backend/internal/delivery/http/response"
	"hirepath-backend/internal/domain"
	"hirepath-backend/internal/usecase"
	"hirepath-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	CandidateUC domain.CandidateUsecase
	ExportUC    domain.ExportUsecase
	HealthUC    usecase.HealthUsecase
	RateLimiter *middleware.RateLimiter
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins)) // CORS must be first!
	r.Use(gin.CustomRecovery(recoverPanic))
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		status := deps.HealthUC.Check(c.Request.Context())
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		response.JSON(c, code, status)
	})

	api := r.Group("/api")

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limited := api.Group("")
	if deps.RateLimiter != nil {
		limited.Use(deps.RateLimiter.Middleware())
	}
	NewCandidateHandler(limited, deps.CandidateUC, deps.ExportUC, deps.Config.DefaultPageLimit)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route not found")
	})

	return r
}

func recoverPanic(c *gin.Context, recovered any) {
	logger.Log.Error("panic recovered", "path", c.Request.URL.Path, "panic", recovered)
	response.Error(c, http.StatusInternalServerError, "Something went wrong!")
	c.Abort()
}
