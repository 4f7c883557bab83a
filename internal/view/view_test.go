package view

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/db"
	"github.com/radioclub/internal/service"
	"github.com/radioclub/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(web.Templates(), Funcs(nil, nil))
	require.NoError(t, err)
	return r
}

func renderDoc(t *testing.T, r *Renderer, name string, data gin.H) *goquery.Document {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, r.Instance(name, data).Render(rec))
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func baseData() gin.H {
	return gin.H{
		"site":        service.DefaultClubSettings(),
		"menu":        []db.Page{{Title: "Inicio", URLPath: "/"}, {Title: "Radio", URLPath: "/radio/"}},
		"currentPath": "/radio/hf/",
		"year":        2025,
	}
}

func TestEveryPageTypeHasTemplate(t *testing.T) {
	r := newTestRenderer(t)
	for _, pt := range service.PageTypes() {
		assert.True(t, r.Has(pt.Template), "missing template %s", pt.Template)
	}
	for _, name := range []string{service.ContactLandingTemplate, "404.html", "500.html", "admin/login.html", "admin/dashboard.html"} {
		assert.True(t, r.Has(name), "missing template %s", name)
	}
	assert.False(t, r.Has("layouts/base.html"))
}

func TestRenderRadioPage(t *testing.T) {
	r := newTestRenderer(t)
	data := baseData()
	data["title"] = "HF - Onda Corta"
	data["page"] = &db.Page{Title: "HF - Onda Corta", URLPath: "/radio/hf/", Icon: "bi-broadcast", Introduction: "Bandas de **HF**."}
	data["breadcrumbs"] = []db.Page{{Title: "Inicio", URLPath: "/"}, {Title: "Radio", URLPath: "/radio/"}}
	data["radio"] = service.RadioContext{Topics: []db.Page{{Title: "FT8", URLPath: "/radio/hf/ft8/", Icon: "bi-cpu"}}}

	doc := renderDoc(t, r, "radio/radio_page.html", data)
	assert.Equal(t, "HF - Onda Corta | URV EA1RKV", doc.Find("title").Text())
	assert.Equal(t, "HF - Onda Corta", doc.Find("h1.page-title").Text())
	assert.Equal(t, "HF", doc.Find(".page-intro strong").Text())
	assert.Equal(t, 2, doc.Find(".breadcrumb-item a").Length())
	assert.Equal(t, "/radio/", doc.Find(".site-nav a.nav-link.active").AttrOr("href", ""))
	assert.Equal(t, "/radio/hf/ft8/", doc.Find(".subtopics a").AttrOr("href", ""))
	assert.Contains(t, doc.Find("footer").Text(), "seccion.vigo@ure.es")
}

func TestRenderBlogIndexPagination(t *testing.T) {
	r := newTestRenderer(t)
	published := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	data := baseData()
	data["page"] = &db.Page{Title: "Noticias", URLPath: "/noticias/"}
	data["baseURL"] = "/noticias/"
	data["category"] = "concursos"
	data["pagination"] = service.Paginate(2, 20, 9)
	data["blog"] = service.BlogIndex{
		Posts:           []db.Page{{Title: "Field Day", URLPath: "/noticias/field-day/", FirstPublishedAt: &published}},
		Categories:      []db.BlogCategory{{Name: "Concursos", Slug: "concursos"}},
		CurrentCategory: "concursos",
	}

	doc := renderDoc(t, r, "blog/blog_index_page.html", data)
	assert.Equal(t, "5 de marzo de 2025", strings.TrimSpace(doc.Find(".post-card time").Text()))
	assert.Equal(t, "/noticias/?category=concursos", doc.Find(".pagination a[rel=prev]").AttrOr("href", ""))
	assert.Equal(t, "/noticias/?category=concursos&page=3", doc.Find(".pagination a[rel=next]").AttrOr("href", ""))
	assert.Equal(t, "2", doc.Find(".pagination a[aria-current=page]").Text())
}

func TestRenderContactFormKeepsValues(t *testing.T) {
	r := newTestRenderer(t)
	data := baseData()
	data["page"] = &db.Page{Title: "Contacto", URLPath: "/contacto/"}
	data["settings"] = &db.ContactSettings{MapURL: "https://maps.example.com/embed"}
	data["fields"] = []db.FormField{
		{Label: "Nombre", CleanName: "nombre", FieldType: service.FieldSingleLine, Required: true},
		{Label: "Email", CleanName: "email", FieldType: service.FieldEmail, Required: true},
		{Label: "Banda", CleanName: "banda", FieldType: service.FieldDropdown, Choices: "HF\nVHF\nUHF"},
	}
	data["values"] = map[string]string{"nombre": "Chus", "email": "no-es-email", "banda": "VHF"}
	data["errors"] = map[string]string{"email": "Introduzca una dirección de correo electrónico válida."}

	doc := renderDoc(t, r, "contact/contact_page.html", data)
	assert.Equal(t, "Chus", doc.Find("#id_nombre").AttrOr("value", ""))
	assert.Equal(t, "email", doc.Find("#id_email").AttrOr("type", ""))
	assert.True(t, doc.Find("#id_email").HasClass("is-invalid"))
	assert.Equal(t, "VHF", doc.Find("#id_banda option[selected]").Text())
	assert.Equal(t, 1, doc.Find(".invalid-feedback").Length())
	assert.Equal(t, "/contacto/", doc.Find("form.contact-form").AttrOr("action", ""))
}

func TestIsActive(t *testing.T) {
	assert.True(t, isActive("/", db.Page{URLPath: "/"}))
	assert.False(t, isActive("/radio/", db.Page{URLPath: "/"}))
	assert.True(t, isActive("/radio/hf/", db.Page{URLPath: "/radio/"}))
	assert.False(t, isActive("/radioclub/", db.Page{URLPath: "/radio/"}))
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "/galeria/", pageURL("/galeria/", "", 1))
	assert.Equal(t, "/galeria/?page=2", pageURL("/galeria/", "", 2))
	assert.Equal(t, "/noticias/?category=hf", categoryURL("/noticias/", "hf"))
}

func TestDateHelpersUseClubZone(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	funcs := Funcs(nil, madrid)
	date := funcs["date"].(func(interface{}) string)
	iso := funcs["isoDate"].(func(interface{}) string)

	late := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2 de marzo de 2025", date(late))
	assert.Equal(t, "2025-03-02", iso(&late))

	azores, err := time.LoadLocation("Atlantic/Azores")
	require.NoError(t, err)
	calendarDay := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "1 de marzo de 2025", Funcs(nil, azores)["date"].(func(interface{}) string)(calendarDay))
}
