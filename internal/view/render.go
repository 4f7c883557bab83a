// Package view renders the embedded HTML templates for gin.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/render"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

const (
	templateRoot = "templates"
	layoutDir    = "layouts"
	partialDir   = "partials"
	// entry is the template every layout defines.
	entry = "layout"
)

// Renderer implements gin's render.HTMLRender over one template set per page.
// Each set holds the layout, the shared partials and the page file, so pages can
// define the same blocks ("title", "content") without clashing.
type Renderer struct {
	templates map[string]*template.Template
	minifier  *minify.M
}

var _ render.HTMLRender = (*Renderer)(nil)

// New parses every template below templates/ in files. Pages under admin/ use the
// admin layout; every other page uses the public base layout.
func New(files fs.FS, funcs template.FuncMap) (*Renderer, error) {
	partials, err := fs.Glob(files, path.Join(templateRoot, partialDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("list partials: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template), minifier: newMinifier()}
	err = fs.WalkDir(files, templateRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" {
			return nil
		}
		name := strings.TrimPrefix(p, templateRoot+"/")
		if strings.HasPrefix(name, layoutDir+"/") || strings.HasPrefix(name, partialDir+"/") {
			return nil
		}

		layout := path.Join(templateRoot, layoutDir, "base.html")
		if strings.HasPrefix(name, "admin/") {
			layout = path.Join(templateRoot, layoutDir, "admin.html")
		}
		patterns := append([]string{layout}, partials...)
		patterns = append(patterns, p)

		tmpl, err := template.New(name).Funcs(funcs).ParseFS(files, patterns...)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		r.templates[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(r.templates) == 0 {
		return nil, fmt.Errorf("no templates found below %s", templateRoot)
	}
	return r, nil
}

func newMinifier() *minify.M {
	m := minify.New()
	m.Add("text/html", &html.Minifier{KeepDocumentTags: true, KeepEndTags: true, KeepQuotes: true})
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)
	return m
}

// Names lists the parsed page templates.
func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a page template with the given name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data interface{}) render.Render {
	return &Page{renderer: r, name: name, data: data}
}

// Page is one pending template execution.
type Page struct {
	renderer *Renderer
	name     string
	data     interface{}
}

// Render executes the page into a buffer first so a failing template never sends half a page.
func (p *Page) Render(w http.ResponseWriter) error {
	p.WriteContentType(w)
	tmpl, ok := p.renderer.templates[p.name]
	if !ok {
		return fmt.Errorf("template %q not found", p.name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, entry, p.data); err != nil {
		return fmt.Errorf("execute %s: %w", p.name, err)
	}
	if err := p.renderer.minifier.Minify("text/html", w, &buf); err != nil {
		return fmt.Errorf("minify %s: %w", p.name, err)
	}
	return nil
}

func (p *Page) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{"text/html; charset=utf-8"}
	}
}
