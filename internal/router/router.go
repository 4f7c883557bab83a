package router

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/config"
	"github.com/radioclub/internal/db"
	"github.com/radioclub/internal/handler"
	"github.com/radioclub/internal/mailer"
	"github.com/radioclub/internal/metrics"
	"github.com/radioclub/internal/service"
	"github.com/radioclub/internal/view"
	"github.com/radioclub/web"
	"gorm.io/gorm"
)

const sessionName = "radioclub_session"

// Options carries the collaborators of the router. Nil fields use db.DB,
// slog.Default, a mailer built from the SMTP config and fresh metrics.
type Options struct {
	DB      *gorm.DB
	Logger  *slog.Logger
	Mailer  mailer.Mailer
	Metrics *metrics.Metrics
}

// SetupRouter builds the Gin engine with the admin API, the media and static files,
// and the page tree as catch-all.
func SetupRouter(cfg config.AppConfig, opts Options) (*gin.Engine, error) {
	gdb := opts.DB
	if gdb == nil {
		gdb = db.DB
	}
	if gdb == nil {
		return nil, errors.New("router: database not initialized")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	mail := opts.Mailer
	if mail == nil {
		mail = mailer.New(cfg.SMTP, logger)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	renderer, err := view.New(web.Templates(), view.Funcs(service.NewBlockRenderer(gdb), loc))
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), m.Middleware(), requestLogger(logger))
	r.HTMLRender = renderer

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	api := handler.NewAPI(gdb, handler.Options{
		UploadDir:       cfg.UploadDir,
		UploadURL:       cfg.UploadURLPath,
		BlogPageSize:    cfg.BlogPageSize,
		GalleryPageSize: cfg.GalleryPageSize,
		Mailer:          mail,
		Logger:          logger,
		Location:        loc,
		Metrics:         m,
	})

	r.StaticFS("/static", http.FS(web.Static()))
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/healthz", api.HealthCheck)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	admin := r.Group("/admin")
	{
		admin.GET("/login", api.ShowLoginPage)
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("", api.ShowDashboard)

			apiGroup := auth.Group("/api")
			{
				apiGroup.GET("/page-types", api.GetPageTypes)
				apiGroup.GET("/page-types/creatable", api.GetCreatableTypes)
				apiGroup.GET("/radio-icons", api.GetRadioIcons)

				apiGroup.GET("/pages", api.GetPageTree)
				apiGroup.GET("/pages/:id", api.GetPage)
				apiGroup.PUT("/pages/:id", api.UpdatePage)
				apiGroup.DELETE("/pages/:id", api.DeletePage)
				apiGroup.GET("/pages/:id/children", api.GetPageChildren)
				apiGroup.POST("/pages/:id/children", api.CreatePage)
				apiGroup.POST("/pages/:id/move", api.MovePage)
				apiGroup.POST("/pages/:id/reorder", api.ReorderChildren)
				apiGroup.POST("/pages/:id/publish", api.PublishPage)
				apiGroup.POST("/pages/:id/unpublish", api.UnpublishPage)

				apiGroup.GET("/pages/:id/home-settings", api.GetHomeSettings)
				apiGroup.PUT("/pages/:id/home-settings", api.UpdateHomeSettings)
				apiGroup.GET("/pages/:id/contact-settings", api.GetContactSettings)
				apiGroup.PUT("/pages/:id/contact-settings", api.UpdateContactSettings)
				apiGroup.GET("/pages/:id/form-fields", api.GetFormFields)
				apiGroup.PUT("/pages/:id/form-fields", api.SetFormFields)
				apiGroup.GET("/pages/:id/submissions", api.ListSubmissions)
				apiGroup.GET("/pages/:id/gallery-images", api.GetGalleryImages)
				apiGroup.PUT("/pages/:id/gallery-images", api.SetGalleryImages)
				apiGroup.POST("/pages/:id/gallery-images", api.AddGalleryImage)

				apiGroup.GET("/images", api.ListImages)
				apiGroup.POST("/images", api.UploadImage)
				apiGroup.DELETE("/images/:id", api.DeleteImage)
				apiGroup.GET("/documents", api.ListDocuments)
				apiGroup.POST("/documents", api.UploadDocument)
				apiGroup.DELETE("/documents/:id", api.DeleteDocument)

				apiGroup.GET("/categories", api.GetCategories)
				apiGroup.POST("/categories", api.CreateCategory)
				apiGroup.PUT("/categories/:id", api.UpdateCategory)
				apiGroup.DELETE("/categories/:id", api.DeleteCategory)

				apiGroup.GET("/board", api.ListBoardMembers)
				apiGroup.POST("/board", api.CreateBoardMember)
				apiGroup.POST("/board/order", api.ReorderBoardMembers)
				apiGroup.PUT("/board/:id", api.UpdateBoardMember)
				apiGroup.DELETE("/board/:id", api.DeleteBoardMember)

				apiGroup.GET("/settings", api.GetClubSettings)
				apiGroup.PUT("/settings", api.UpdateClubSettings)
			}
		}
	}

	// Everything else is looked up in the page tree.
	r.NoRoute(api.ServePage)

	return r, nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
