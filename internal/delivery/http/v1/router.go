package v1

import (
	"jobs-admin-backend/internal/delivery/http/middleware"
	"jobs-admin-backend/internal/domain"
	"jobs-admin-backend/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	CompanyUC      domain.CompanyUsecase
	JobUC          domain.JobUsecase
	ExportUC       domain.ExportUsecase
	HealthUC       usecase.HealthUsecase
	RateLimiter    *middleware.RateLimiter
	WriteLimit     middleware.RateLimitConfig
	AllowedOrigins []string
	Release        bool
	MaxLogoBytes   int
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.AllowedOrigins, deps.Release)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger()) // Use standard Gin logger
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Swagger UI needs its own scripts, so it sits outside the strict CSP group.
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := v1.Group("")
	api.Use(middleware.SecurityHeadersMiddleware())
	{
		api.GET("/health", healthHandler(deps.HealthUC))

		write := deps.RateLimiter.Middleware(deps.WriteLimit)
		NewCompanyHandler(api, write, deps.CompanyUC, deps.ExportUC, deps.MaxLogoBytes)
		NewJobHandler(api, write, deps.JobUC, deps.ExportUC)
	}

	return r
}
