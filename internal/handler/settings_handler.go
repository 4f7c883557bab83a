package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/db"
	"github.com/radioclub/internal/service"
)

type formFieldPayload struct {
	Label        string `json:"label"`
	FieldType    string `json:"field_type"`
	Required     bool   `json:"required"`
	Choices      string `json:"choices"`
	DefaultValue string `json:"default_value"`
	HelpText     string `json:"help_text"`
}

type formFieldsRequest struct {
	Fields []formFieldPayload `json:"fields"`
}

// GetHomeSettings returns the hero and block texts of home page :id.
func (a *API) GetHomeSettings(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	settings, err := a.home.Settings(id)
	if err != nil {
		a.respondServiceError(c, err, "No se han podido cargar los ajustes de portada.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (a *API) UpdateHomeSettings(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload db.HomeSettings
	if !bindJSON(c, &payload, "Datos no válidos.") {
		return
	}
	settings, err := a.home.UpdateSettings(id, payload)
	if err != nil {
		a.respondServiceError(c, err, "No se han podido guardar los ajustes de portada.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Portada guardada.", "settings": settings})
}

// GetContactSettings returns the mail and landing settings of contact page :id.
func (a *API) GetContactSettings(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	settings, err := a.forms.Settings(id)
	if err != nil {
		a.respondServiceError(c, err, "No se han podido cargar los ajustes del formulario.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (a *API) UpdateContactSettings(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload db.ContactSettings
	if !bindJSON(c, &payload, "Datos no válidos.") {
		return
	}
	settings, err := a.forms.UpdateSettings(id, payload)
	if err != nil {
		a.respondServiceError(c, err, "No se han podido guardar los ajustes del formulario.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Formulario guardado.", "settings": settings})
}

func (a *API) GetFormFields(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if _, err := a.forms.Settings(id); err != nil {
		a.respondServiceError(c, err, "No se han podido cargar los campos.")
		return
	}
	fields, err := a.forms.Fields(id)
	if err != nil {
		a.respondServiceError(c, err, "No se han podido cargar los campos.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": fields})
}

// SetFormFields replaces the fields of a contact form in the posted order.
func (a *API) SetFormFields(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req formFieldsRequest
	if !bindJSON(c, &req, "Datos no válidos.") {
		return
	}
	inputs := make([]service.FormFieldInput, 0, len(req.Fields))
	for _, f := range req.Fields {
		inputs = append(inputs, service.FormFieldInput{
			Label:        f.Label,
			FieldType:    f.FieldType,
			Required:     f.Required,
			Choices:      f.Choices,
			DefaultValue: f.DefaultValue,
			HelpText:     f.HelpText,
		})
	}
	fields, err := a.forms.SetFields(id, inputs)
	if err != nil {
		a.respondServiceError(c, err, "No se han podido guardar los campos.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campos guardados.", "fields": fields})
}

// ListSubmissions pages through the stored posts of contact page :id, newest first.
func (a *API) ListSubmissions(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if _, err := a.forms.Settings(id); err != nil {
		a.respondServiceError(c, err, "No se han podido cargar los mensajes.")
		return
	}
	result, err := a.forms.Submissions(id, c.Query("page"), 20)
	if err != nil {
		a.respondServiceError(c, err, "No se han podido cargar los mensajes.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"submissions": result.Submissions,
		"page":        result.Pagination.Page,
		"total":       result.Pagination.Total,
		"total_pages": result.Pagination.TotalPages,
	})
}
