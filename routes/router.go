package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/qrdrop/qrdrop/config"
	"github.com/qrdrop/qrdrop/controllers"
	"github.com/qrdrop/qrdrop/middleware"
	"github.com/qrdrop/qrdrop/realtime"
	"github.com/qrdrop/qrdrop/store"
	"github.com/qrdrop/qrdrop/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(s *store.Store, hub *realtime.Hub) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	r.GET("/upload/:sessionId", func(c *gin.Context) {
		c.File("./static/upload.html")
	})

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	r.GET("/ws", func(ctx *gin.Context) {
		hub.ServeWS(ctx.Writer, ctx.Request)
	})

	sessionController := controllers.NewSessionController(s)
	fileController := controllers.NewFileController(s)
	statsController := controllers.NewStatsController(s)
	configController := controllers.NewConfigController()

	api := r.Group("/api/v1")

	sessionGroup := api.Group("/session")
	sessionGroup.Use(middleware.RateLimitMiddleware())
	sessionGroup.POST("", sessionController.CreateSession)
	sessionGroup.POST("/reset", sessionController.Reset)
	sessionGroup.GET("/:sessionId/validate", sessionController.Validate)
	sessionGroup.GET("/:sessionId/qr", sessionController.QRCode)

	api.POST("/upload", middleware.RateLimitMiddleware(), fileController.Upload)
	api.GET("/files/:sessionId", fileController.List)
	api.GET("/download/:fileId", fileController.Download)
	api.DELETE("/file/:fileId", fileController.Delete)

	api.GET("/stats", statsController.GetStats)
	api.GET("/config/limits", configController.GetLimits)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}
