package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/domain/models"
	"github.com/kasetgo/kaset/internal/server/handlers"
	authsvc "github.com/kasetgo/kaset/internal/service/auth"
)

// Handlers bundles the HTTP adapters wired into the engine.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Plot      *handlers.PlotHandler
	Catalog   *handlers.CatalogHandler
	Detection *handlers.DetectionHandler
	CCTV      *handlers.CCTVHandler
	Notify    *handlers.NotifyHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, tokens *authsvc.Service, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.POST("/verify-otp", h.Auth.VerifyOTP)
	auth.POST("/reset-password", h.Auth.ResetPassword)

	secured := api.Group("")
	secured.Use(authMiddleware(tokens, logger))

	plots := secured.Group("/plots")
	plots.POST("", h.Plot.Create)
	plots.GET("", h.Plot.List)
	plots.GET("/:id", h.Plot.Get)
	plots.PUT("/:id", h.Plot.Update)
	plots.DELETE("/:id", h.Plot.Delete)
	plots.POST("/:id/planting", h.Plot.StartPlanting)
	plots.POST("/:id/harvest", h.Plot.RecordHarvest)
	plots.GET("/:id/history", h.Plot.History)
	plots.GET("/:id/history/summary", h.Plot.HistorySummary)
	plots.GET("/:id/history/export.csv", h.Plot.ExportCSV)
	plots.GET("/:id/history/export.xlsx", h.Plot.ExportXLSX)
	plots.POST("/:id/history/export/sheets", h.Plot.ExportToSheet)

	secured.GET("/vegetables", h.Catalog.ListVegetables)
	secured.GET("/vegetables/:id", h.Catalog.GetVegetable)
	secured.GET("/diseases", h.Catalog.ListEntries(models.CatalogDisease))
	secured.GET("/pests", h.Catalog.ListEntries(models.CatalogPest))

	admin := secured.Group("")
	admin.Use(requireRole(models.RoleAdmin))
	admin.POST("/vegetables", h.Catalog.CreateVegetable)
	admin.PUT("/vegetables/:id", h.Catalog.UpdateVegetable)
	admin.DELETE("/vegetables/:id", h.Catalog.DeleteVegetable)
	admin.POST("/diseases", h.Catalog.CreateEntry(models.CatalogDisease))
	admin.PUT("/diseases/:id", h.Catalog.UpdateEntry(models.CatalogDisease))
	admin.DELETE("/diseases/:id", h.Catalog.DeleteEntry(models.CatalogDisease))
	admin.POST("/pests", h.Catalog.CreateEntry(models.CatalogPest))
	admin.PUT("/pests/:id", h.Catalog.UpdateEntry(models.CatalogPest))
	admin.DELETE("/pests/:id", h.Catalog.DeleteEntry(models.CatalogPest))

	secured.POST("/detections", h.Detection.Detect)
	secured.GET("/detections", h.Detection.History)

	cameras := secured.Group("/cameras")
	cameras.POST("", h.CCTV.Register)
	cameras.GET("", h.CCTV.List)
	cameras.PUT("/:id", h.CCTV.Update)
	cameras.DELETE("/:id", h.CCTV.Delete)

	notifications := secured.Group("/notifications")
	notifications.POST("/telegram/link", h.Notify.LinkTelegram)
	notifications.POST("/test", h.Notify.SendTest)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// authMiddleware validates the bearer token and stores the caller's identity
// on the request context.
func authMiddleware(tokens *authsvc.Service, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := tokens.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logger.Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(handlers.ContextUserID, claims.Subject)
		c.Set(handlers.ContextRole, string(claims.Role))
		c.Next()
	}
}

func requireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(handlers.ContextRole) != string(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}
