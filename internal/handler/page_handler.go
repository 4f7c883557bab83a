package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/blocks"
	"github.com/radioclub/internal/service"
	"github.com/radioclub/internal/view"
)

type pageRequest struct {
	Type              string        `json:"type"`
	Title             string        `json:"title"`
	Slug              string        `json:"slug"`
	Live              bool          `json:"live"`
	ShowInMenus       bool          `json:"show_in_menus"`
	Restricted        bool          `json:"restricted"`
	SeoTitle          string        `json:"seo_title"`
	SearchDescription string        `json:"search_description"`
	Introduction      string        `json:"introduction"`
	Body              blocks.Stream `json:"body"`
	HeaderImageID     *uint         `json:"header_image_id"`
	DateFrom          string        `json:"date_from"`
	DateTo            string        `json:"date_to"`
	Location          string        `json:"location"`
	Icon              string        `json:"icon"`
	RulesDocumentID   *uint         `json:"rules_document_id"`
	CategoryIDs       []uint        `json:"category_ids"`
}

// toInput converts the request; dates use the yyyy-mm-dd form of <input type="date">.
func (r pageRequest) toInput() (service.PageInput, map[string]string) {
	input := service.PageInput{
		Type:              r.Type,
		Title:             r.Title,
		Slug:              r.Slug,
		Live:              r.Live,
		ShowInMenus:       r.ShowInMenus,
		Restricted:        r.Restricted,
		SeoTitle:          r.SeoTitle,
		SearchDescription: r.SearchDescription,
		Introduction:      r.Introduction,
		Body:              r.Body,
		HeaderImageID:     r.HeaderImageID,
		Location:          r.Location,
		Icon:              r.Icon,
		RulesDocumentID:   r.RulesDocumentID,
		CategoryIDs:       r.CategoryIDs,
	}

	fields := map[string]string{}
	var err error
	if input.DateFrom, err = parseDate(r.DateFrom); err != nil {
		fields["date_from"] = "Introduce una fecha válida (AAAA-MM-DD)."
	}
	if input.DateTo, err = parseDate(r.DateTo); err != nil {
		fields["date_to"] = "Introduce una fecha válida (AAAA-MM-DD)."
	}
	if len(fields) > 0 {
		return input, fields
	}
	return input, nil
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type idsRequest struct {
	IDs []uint `json:"ids"`
}

type moveRequest struct {
	ParentID uint `json:"parent_id"`
}

type pageTypePayload struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// GetPageTree returns every page in tree order, without bodies.
func (a *API) GetPageTree(c *gin.Context) {
	pages, err := a.pages.Tree()
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido cargar el árbol de páginas.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

// GetPage returns one page with its relations.
func (a *API) GetPage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	page, err := a.pages.Get(id)
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido cargar la página.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page})
}

// GetPageChildren lists the direct children of a page.
func (a *API) GetPageChildren(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if _, err := a.pages.Get(id); err != nil {
		a.respondServiceError(c, err, "No se ha podido cargar la página.")
		return
	}
	pages, err := a.pages.Children(id, service.ChildrenOptions{Type: c.Query("type")})
	if err != nil {
		a.respondServiceError(c, err, "No se han podido cargar las subpáginas.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

// GetCreatableTypes lists the page types that can be added below ?parent_id= (top level when absent).
func (a *API) GetCreatableTypes(c *gin.Context) {
	var parentID uint
	if raw := c.Query("parent_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Identificador no válido.")
			return
		}
		parentID = uint(parsed)
	}

	types, err := a.pages.CreatableChildTypes(parentID)
	if err != nil {
		a.respondServiceError(c, err, "No se han podido cargar los tipos de página.")
		return
	}
	payload := make([]pageTypePayload, 0, len(types))
	for _, pt := range types {
		payload = append(payload, pageTypePayload{Name: pt.Name, Label: pt.Label})
	}
	c.JSON(http.StatusOK, gin.H{"types": payload})
}

// GetRadioIcons lists the icons offered for radio topics.
func (a *API) GetRadioIcons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"icons": view.RadioIconOptions()})
}

// CreatePage adds a child below :id; id 0 creates a top-level page.
func (a *API) CreatePage(c *gin.Context) {
	parentID, ok := idParam(c)
	if !ok {
		return
	}
	var req pageRequest
	if !bindJSON(c, &req, "Datos de página no válidos.") {
		return
	}
	input, fields := req.toInput()
	if fields != nil {
		respondValidation(c, fields)
		return
	}

	page, err := a.pages.AddChild(parentID, input)
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido crear la página.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Página creada.", "page": page})
}

// UpdatePage saves the editable fields of a page.
func (a *API) UpdatePage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req pageRequest
	if !bindJSON(c, &req, "Datos de página no válidos.") {
		return
	}
	input, fields := req.toInput()
	if fields != nil {
		respondValidation(c, fields)
		return
	}

	page, err := a.pages.Update(id, input)
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido guardar la página.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Página guardada.", "page": page})
}

// MovePage moves a page and its subtree below another parent.
func (a *API) MovePage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req moveRequest
	if !bindJSON(c, &req, "Indica la nueva página padre.") {
		return
	}
	page, err := a.pages.Move(id, req.ParentID)
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido mover la página.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Página movida.", "page": page})
}

// ReorderChildren sets the order of the children of :id.
func (a *API) ReorderChildren(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req idsRequest
	if !bindJSON(c, &req, "Indica el nuevo orden.") {
		return
	}
	if err := a.pages.Reorder(id, req.IDs); err != nil {
		a.respondServiceError(c, err, "No se ha podido ordenar las páginas.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Orden guardado."})
}

// PublishPage makes a page live.
func (a *API) PublishPage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	page, err := a.pages.Publish(id)
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido publicar la página.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Página publicada.", "page": page})
}

// UnpublishPage hides a page from visitors.
func (a *API) UnpublishPage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	page, err := a.pages.Unpublish(id)
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido despublicar la página.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Página despublicada.", "page": page})
}

// DeletePage removes a page and its subtree.
func (a *API) DeletePage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.pages.Delete(id); err != nil {
		a.respondServiceError(c, err, "No se ha podido eliminar la página.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Página eliminada."})
}
