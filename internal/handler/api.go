package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/config"
	"github.com/radioclub/internal/mailer"
	"github.com/radioclub/internal/metrics"
	"github.com/radioclub/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db      *gorm.DB
	logger  *slog.Logger
	metrics *metrics.Metrics
	loc     *time.Location

	pages      *service.PageService
	blog       *service.BlogService
	activities *service.ActivitiesService
	galleries  *service.GalleryService
	board      *service.BoardService
	media      *service.MediaService
	forms      *service.FormService
	home       *service.HomeService
	sections   *service.SectionService
	system     *service.SystemSettingService
}

// Options configures NewAPI. Zero values fall back to the service defaults.
type Options struct {
	UploadDir       string
	UploadURL       string
	BlogPageSize    int
	GalleryPageSize int
	Mailer          mailer.Mailer
	Logger          *slog.Logger
	Location        *time.Location
	Metrics         *metrics.Metrics
}

const siteSettingsContextKey = "__club_settings"

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) *API {
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
		mail = mailer.NewConsoleMailer(logger)
	}

	loc := opts.Location
	if loc == nil {
		loc = config.DefaultLocation()
	}

	pages := service.NewPageService(gdb)
	pages.SetLocation(loc)
	if opts.UploadURL != "" {
		pages.SetUploadURLPath(opts.UploadURL)
	}
	blog := service.NewBlogService(gdb, opts.BlogPageSize)
	activities := service.NewActivitiesService(gdb)
	activities.SetLocation(loc)

	return &API{
		db:         gdb,
		logger:     logger,
		metrics:    m,
		loc:        loc,
		pages:      pages,
		blog:       blog,
		activities: activities,
		galleries:  service.NewGalleryService(gdb, opts.GalleryPageSize),
		board:      service.NewBoardService(gdb),
		media:      service.NewMediaService(gdb, opts.UploadDir, opts.UploadURL),
		forms:      service.NewFormService(gdb, m.InstrumentMailer(mail), logger),
		home:       service.NewHomeService(gdb, blog, activities),
		sections:   service.NewSectionService(gdb),
		system:     service.NewSystemSettingService(gdb),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

func (a *API) siteSettings(c *gin.Context) service.ClubSettings {
	if cached, exists := c.Get(siteSettingsContextKey); exists {
		if settings, ok := cached.(service.ClubSettings); ok {
			return settings
		}
	}

	settings, err := a.system.GetSettings()
	if err != nil {
		a.logger.Error("load club settings", "error", err)
		settings = service.DefaultClubSettings()
	}
	c.Set(siteSettingsContextKey, settings)
	return settings
}

// renderHTML adds the club settings, the main menu and the current path to every template.
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["site"]; !exists {
		payload["site"] = a.siteSettings(c)
	}
	if _, exists := payload["menu"]; !exists {
		menu, err := a.pages.Menu()
		if err != nil {
			a.logger.Error("load menu", "error", err)
		}
		payload["menu"] = menu
	}
	if _, exists := payload["currentPath"]; !exists {
		payload["currentPath"] = c.Request.URL.Path
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().In(a.loc).Year()
	}
	if _, exists := payload["title"]; !exists {
		payload["title"] = ""
	}

	c.HTML(status, template, payload)
}

func (a *API) renderNotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "404.html", gin.H{"title": "Página no encontrada"})
}

func (a *API) renderServerError(c *gin.Context, err error) {
	a.logger.Error("render page", "path", c.Request.URL.Path, "error", err)
	a.renderHTML(c, http.StatusInternalServerError, "500.html", gin.H{"title": "Error"})
}
