package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/db"
	"github.com/radioclub/internal/service"
)

// ServePage resolves the request path through the page tree. It is installed as the
// router's NoRoute handler so every URL not owned by a gin route lands here.
func (a *API) ServePage(c *gin.Context) {
	method := c.Request.Method
	if method != http.MethodGet && method != http.MethodHead && method != http.MethodPost {
		c.AbortWithStatus(http.StatusMethodNotAllowed)
		return
	}

	path := c.Request.URL.Path
	page, err := a.pages.GetByURLPath(path)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			a.renderNotFound(c)
			return
		}
		a.renderServerError(c, err)
		return
	}
	if !page.Live {
		a.renderNotFound(c)
		return
	}

	if path != page.URLPath {
		if method == http.MethodPost {
			a.renderNotFound(c)
			return
		}
		target := page.URLPath
		if raw := c.Request.URL.RawQuery; raw != "" {
			target += "?" + raw
		}
		c.Redirect(http.StatusMovedPermanently, target)
		return
	}

	restricted, err := a.pages.RequiresLogin(page)
	if err != nil {
		a.renderServerError(c, err)
		return
	}
	if restricted && !isAuthenticated(c) {
		c.Redirect(http.StatusFound, loginURL(c.Request.URL.RequestURI()))
		return
	}

	if method == http.MethodPost {
		if page.Type != service.PageTypeContact {
			c.AbortWithStatus(http.StatusMethodNotAllowed)
			return
		}
		a.submitContact(c, page)
		return
	}
	a.renderPage(c, http.StatusOK, page, nil)
}

// renderPage builds the context of page's type and renders its template. extra overrides
// keys of the built context.
func (a *API) renderPage(c *gin.Context, status int, page *db.Page, extra gin.H) {
	pt, ok := service.LookupPageType(page.Type)
	if !ok {
		a.renderNotFound(c)
		return
	}

	data := gin.H{"page": page, "title": pageTitle(page)}
	if page.Type != service.PageTypeHome {
		breadcrumbs, err := a.sections.Breadcrumbs(page)
		if err != nil {
			a.renderServerError(c, err)
			return
		}
		data["breadcrumbs"] = breadcrumbs
	}

	var err error
	switch page.Type {
	case service.PageTypeHome:
		data["home"], err = a.home.Context(page)
	case service.PageTypeAboutIndex:
		data["about"], err = a.sections.About(page)
	case service.PageTypeBlogIndex:
		var index service.BlogIndex
		index, err = a.blog.Index(page, c.Query("category"), c.Query("page"))
		data["blog"] = index
		data["pagination"] = index.Pagination
		data["category"] = index.CurrentCategory
		data["baseURL"] = page.URLPath
	case service.PageTypeActivitiesIndex:
		data["activities"], err = a.activities.Index(page)
	case service.PageTypeRadioIndex, service.PageTypeRadio:
		var radio service.RadioContext
		radio, err = a.sections.Radio(page)
		data["radio"] = radio
		data["breadcrumbs"] = radio.Breadcrumbs
	case service.PageTypeGalleryIndex:
		var index service.GalleryIndex
		index, err = a.galleries.Index(page, c.Query("page"))
		data["galleries"] = index
		data["pagination"] = index.Pagination
		data["category"] = ""
		data["baseURL"] = page.URLPath
	case service.PageTypeGallery:
		data["images"], err = a.galleries.Images(page.ID)
	case service.PageTypeContact:
		data["fields"], err = a.forms.Fields(page.ID)
		if err == nil {
			data["settings"], err = a.forms.Settings(page.ID)
		}
	}
	if err != nil {
		a.renderServerError(c, err)
		return
	}

	for key, value := range extra {
		data[key] = value
	}
	a.renderHTML(c, status, pt.Template, data)
}

// submitContact stores a contact form post. Invalid posts re-render the form with
// status 400; valid ones render the landing page.
func (a *API) submitContact(c *gin.Context, page *db.Page) {
	if err := c.Request.ParseForm(); err != nil {
		a.renderPage(c, http.StatusBadRequest, page, gin.H{"errors": map[string]string{"__all__": "Formulario no válido."}})
		return
	}
	posted := c.Request.PostForm

	_, err := a.forms.Submit(c.Request.Context(), page.ID, posted)
	if err != nil {
		fields := service.FieldErrors(err)
		if fields == nil {
			a.renderServerError(c, err)
			return
		}
		a.metrics.ContactSubmitted(false)

		formFields, ferr := a.forms.Fields(page.ID)
		if ferr != nil {
			a.renderServerError(c, ferr)
			return
		}
		a.renderPage(c, http.StatusBadRequest, page, gin.H{
			"errors": fields,
			"values": postedValues(formFields, posted),
		})
		return
	}
	a.metrics.ContactSubmitted(true)

	settings, err := a.forms.Settings(page.ID)
	if err != nil {
		a.renderServerError(c, err)
		return
	}
	a.renderHTML(c, http.StatusOK, service.ContactLandingTemplate, gin.H{
		"page":     page,
		"title":    pageTitle(page),
		"settings": settings,
	})
}

// postedValues keeps what the visitor typed so the re-rendered form is not emptied.
func postedValues(fields []db.FormField, form url.Values) map[string]string {
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		posted := form[field.CleanName]
		switch field.FieldType {
		case service.FieldCheckbox:
			if len(posted) > 0 && posted[0] != "" {
				values[field.CleanName] = "true"
			} else {
				values[field.CleanName] = "false"
			}
		default:
			values[field.CleanName] = strings.Join(posted, ", ")
		}
	}
	return values
}

func pageTitle(page *db.Page) string {
	if title := strings.TrimSpace(page.SeoTitle); title != "" {
		return title
	}
	return page.Title
}
