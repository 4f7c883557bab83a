package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/config"
	"github.com/radioclub/internal/db"
	"github.com/radioclub/internal/mailer"
	"github.com/radioclub/internal/metrics"
	"github.com/radioclub/internal/seed"
	"github.com/radioclub/internal/service"
	"github.com/radioclub/internal/view"
	"github.com/radioclub/web"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testAdmin    = "admin"
	testPassword = "secreto"
)

type testSite struct {
	engine *gin.Engine
	gdb    *gorm.DB
	mail   *mailer.ConsoleMailer
	pages  *service.PageService
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSite seeds an in-memory database and mounts the handlers the way the router does.
func newTestSite(t *testing.T) *testSite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	_, err = seed.Run(context.Background(), gdb, config.SeedConfig{
		AdminUsername: testAdmin,
		AdminEmail:    "admin@ea1rkv.es",
		AdminPassword: testPassword,
	}, quietLogger())
	require.NoError(t, err)

	mail := mailer.NewConsoleMailer(quietLogger())
	api := NewAPI(gdb, Options{
		UploadDir: t.TempDir(),
		UploadURL: "/media",
		Mailer:    mail,
		Logger:    quietLogger(),
		Metrics:   metrics.New(),
	})

	renderer, err := view.New(web.Templates(), view.Funcs(service.NewBlockRenderer(gdb), nil))
	require.NoError(t, err)

	r := gin.New()
	r.HTMLRender = renderer
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))

	r.GET("/admin/login", api.ShowLoginPage)
	r.POST("/admin/login", api.Login)
	r.GET("/admin/logout", api.Logout)
	auth := r.Group("/admin", AuthRequired())
	auth.GET("", api.ShowDashboard)
	apiGroup := auth.Group("/api")
	apiGroup.GET("/pages", api.GetPageTree)
	apiGroup.GET("/pages/:id", api.GetPage)
	apiGroup.POST("/pages/:id/children", api.CreatePage)
	apiGroup.POST("/pages/:id/publish", api.PublishPage)
	apiGroup.GET("/page-types/creatable", api.GetCreatableTypes)
	apiGroup.GET("/categories", api.GetCategories)
	apiGroup.POST("/categories", api.CreateCategory)
	apiGroup.POST("/board/order", api.ReorderBoardMembers)
	r.NoRoute(api.ServePage)

	return &testSite{engine: r, gdb: gdb, mail: mail, pages: service.NewPageService(gdb)}
}

func (s *testSite) do(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	s.engine.ServeHTTP(rr, req)
	return rr
}

func (s *testSite) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil), cookies)
}

func (s *testSite) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, cookies)
}

func (s *testSite) postJSON(path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, cookies)
}

func (s *testSite) login(t *testing.T) []*http.Cookie {
	t.Helper()
	rr := s.postForm("/admin/login", url.Values{"username": {testAdmin}, "password": {testPassword}})
	require.Equal(t, http.StatusFound, rr.Code)
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func (s *testSite) page(t *testing.T, path string) *db.Page {
	t.Helper()
	page, err := s.pages.GetByURLPath(path)
	require.NoError(t, err)
	return page
}

func document(t *testing.T, rr *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)
	return doc
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	return payload
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}
