package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/db"
	"gorm.io/gorm"
)

const (
	sessionUserID   = "user_id"
	sessionUsername = "username"
	adminHome       = "/admin"
	adminLogin      = "/admin/login"
)

// ShowLoginPage renders the admin login form.
func (a *API) ShowLoginPage(c *gin.Context) {
	if isAuthenticated(c) {
		c.Redirect(http.StatusFound, safeNext(c.Query("next")))
		return
	}
	a.renderHTML(c, http.StatusOK, "admin/login.html", gin.H{
		"title": "Iniciar sesión",
		"next":  c.Query("next"),
	})
}

// Login checks the posted credentials and starts a session.
func (a *API) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := c.PostForm("next")

	fail := func(status int, message string) {
		a.renderHTML(c, status, "admin/login.html", gin.H{
			"title":         "Iniciar sesión",
			"error":         message,
			"next":          next,
			"usernameValue": username,
		})
	}

	var user db.User
	if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			a.logger.Error("load user", "username", username, "error", err)
		}
		fail(http.StatusUnauthorized, "Usuario o contraseña incorrectos.")
		return
	}
	if !user.CheckPassword(password) {
		fail(http.StatusUnauthorized, "Usuario o contraseña incorrectos.")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserID, user.ID)
	session.Set(sessionUsername, user.Username)
	if err := session.Save(); err != nil {
		a.logger.Error("save session", "error", err)
		fail(http.StatusInternalServerError, "No se ha podido iniciar la sesión.")
		return
	}

	a.logger.Info("admin login", "username", user.Username)
	c.Redirect(http.StatusFound, safeNext(next))
}

// Logout ends the session.
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		a.logger.Error("clear session", "error", err)
	}
	c.Redirect(http.StatusFound, adminLogin)
}

// ShowDashboard renders the page tree and library counts.
func (a *API) ShowDashboard(c *gin.Context) {
	session := sessions.Default(c)

	tree, err := a.pages.Tree()
	if err != nil {
		a.renderServerError(c, err)
		return
	}

	counts := gin.H{}
	for key, model := range map[string]interface{}{
		"pages":       &db.Page{},
		"images":      &db.Image{},
		"documents":   &db.Document{},
		"submissions": &db.FormSubmission{},
	} {
		var n int64
		if err := a.db.Model(model).Count(&n).Error; err != nil {
			a.renderServerError(c, err)
			return
		}
		counts[key] = n
	}

	a.renderHTML(c, http.StatusOK, "admin/dashboard.html", gin.H{
		"title":    "Panel",
		"username": session.Get(sessionUsername),
		"tree":     tree,
		"counts":   counts,
	})
}

// AuthRequired lets only signed-in admins through. API calls get a JSON 401,
// pages are redirected to the login form.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAuthenticated(c) {
			c.Next()
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, adminHome+"/api") {
			respondError(c, http.StatusUnauthorized, "Inicia sesión para continuar.")
			c.Abort()
			return
		}
		c.Redirect(http.StatusFound, loginURL(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

func isAuthenticated(c *gin.Context) bool {
	return sessions.Default(c).Get(sessionUserID) != nil
}

func loginURL(next string) string {
	return adminLogin + "?next=" + url.QueryEscape(next)
}

// safeNext only follows local paths so the login form cannot redirect off-site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return adminHome
	}
	return next
}
