package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crickpro/config"
	"github.com/DhavalSuthar-24/crickpro/internal/auth"
	"github.com/DhavalSuthar-24/crickpro/internal/match"
	"github.com/DhavalSuthar-24/crickpro/internal/middleware"
	"github.com/DhavalSuthar-24/crickpro/internal/team"
	"github.com/DhavalSuthar-24/crickpro/internal/telemetry"
	"github.com/DhavalSuthar-24/crickpro/pkg/matchresponse"
	"github.com/DhavalSuthar-24/crickpro/pkg/rmiddleware"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Matches   *match.Service
	MatchRepo match.MatchRepository
	Teams     team.TeamRepository
	Feed      match.LiveFeed
}

func SetupRoutes(d Dependencies) *gin.Engine {
	if d.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{d.Config.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", health(d.DB))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authRepo := auth.NewAuthRepository(d.DB)

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(d.Config.JWT.AccessTokenSecret, d.DB))
	admin := protected.Group("/admin")
	admin.Use(rmiddleware.AdminMiddleware(authRepo))

	auth.RegisterAuthRoutes(api, protected, auth.NewAuthController(authRepo, d.Config))
	match.MatchRoutes(protected, admin, match.NewMatchController(d.Matches, d.MatchRepo, d.Feed))
	team.TeamRoutes(protected, d.Teams)

	return r
}

// health reports database reachability and the process metrics.
func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		matchresponse.SuccessResponse(c, code, gin.H{
			"database": status,
			"metrics":  telemetry.TakeSnapshot(),
		})
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		telemetry.L().Info("http",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}
