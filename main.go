package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"gallery/auth"
	"gallery/config"
	"gallery/db"
	"gallery/handlers"
	"gallery/models"
	"gallery/storage"
	"gallery/utils"
	"gallery/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

func setupLogging() {
	var handler slog.Handler
	if config.DEBUG_MODE {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}

// splitList splits a comma separated config value, e.g. "a.com, b.com"
func splitList(value string) []string {
	result := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func setupRouter() *gin.Engine {
	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger)
	_ = router.SetTrustedProxies([]string{})
	router.MaxMultipartMemory = int64(config.MAX_UPLOAD_MB) << 20
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  splitList(config.CORS_ORIGINS),
		AllowMethods:  []string{"GET", "PUT", "POST", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", auth.SecretHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        30 * 24 * time.Hour,
	}))
	if !config.DEBUG_MODE {
		// Archives are already compressed and originals are served with byte ranges
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{
			`^/api/albums/[^/]+/download`,
			`^/api/albums/[^/]+/assets/`,
		})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	/*
	 *	Public interface
	 */
	router.GET("/api/albums", web.AlbumList)
	albumRouter := &auth.Router{Base: router}
	albumRouter.GET("/api/albums/:id", web.AlbumDetail, auth.PolicyVisible)
	albumRouter.POST("/api/albums/:id/unlock", web.AlbumUnlock, auth.PolicyVisible) // Password is checked in the handler
	albumRouter.GET("/api/albums/:id/assets/:asset_id", web.AlbumAssetFetch, auth.PolicyUnlocked)
	albumRouter.GET("/api/albums/:id/download", web.AlbumDownload, auth.PolicyUnlocked)
	albumRouter.POST("/api/albums/:id/download", web.AlbumDownload, auth.PolicyUnlocked)
	albumRouter.POST("/api/albums/:id/download-liked", web.AlbumDownloadLiked, auth.PolicyUnlocked)
	router.GET("/api/settings", web.Settings)
	// Misc
	router.GET("/health", web.Health)
	router.GET("/robots.txt", web.DisallowRobots)

	/*
	 *	Admin interface
	 */
	admin := router.Group("/api/admin")
	if config.ADMIN_PASSWORD != "" {
		admin.Use(gin.BasicAuth(gin.Accounts{config.ADMIN_USER: config.ADMIN_PASSWORD}))
	} else {
		slog.Warn("ADMIN_PASSWORD is not set, the admin API is open")
	}
	adminRouter := &auth.Router{Base: admin}
	// Albums
	admin.GET("/albums", handlers.AlbumList)
	admin.POST("/albums", handlers.AlbumCreate)
	admin.PUT("/albums/order", handlers.AlbumsReorder)
	adminRouter.GET("/albums/:id", handlers.AlbumGet, auth.PolicyAdmin)
	adminRouter.PUT("/albums/:id", handlers.AlbumSave, auth.PolicyAdmin)
	adminRouter.DELETE("/albums/:id", handlers.AlbumDelete, auth.PolicyAdmin)
	adminRouter.PUT("/albums/:id/password", handlers.AlbumPassword, auth.PolicyAdmin)
	// Assets
	adminRouter.POST("/albums/:id/upload", handlers.AssetUpload, auth.PolicyAdmin)
	adminRouter.POST("/albums/:id/upload-multiple", handlers.AssetUploadMultiple, auth.PolicyAdmin)
	adminRouter.PUT("/albums/:id/assets/order", handlers.AlbumAssetsReorder, auth.PolicyAdmin)
	admin.DELETE("/assets/:id", handlers.AssetDelete)
	// Site settings
	admin.GET("/settings", handlers.SettingsGet)
	admin.PUT("/settings", handlers.SettingsSave)
	return router
}

func main() {
	setupLogging()
	db.Init()
	models.Init()
	storage.Init()

	router := setupRouter()
	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, splitList(config.TLS_DOMAINS)...)
	} else {
		slog.Info("listening", "address", config.BIND_ADDRESS)
		err = router.Run(config.BIND_ADDRESS)
	}
	slog.Error("server stopped", "error", err)
	os.Exit(1)
}
