package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func respondValidation(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Revisa los campos indicados.", "fields": fields})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// idParam parses :id and answers 400 when it is not a number.
func idParam(c *gin.Context) (uint, bool) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Identificador no válido.")
		return 0, false
	}
	return id, true
}

type errorMapping struct {
	target  error
	status  int
	message string
}

var serviceErrors = []errorMapping{
	{service.ErrPageNotFound, http.StatusNotFound, "La página no existe."},
	{service.ErrContactPageNotFound, http.StatusNotFound, "La página de contacto no existe."},
	{service.ErrGalleryNotFound, http.StatusNotFound, "La galería no existe."},
	{service.ErrImageNotFound, http.StatusNotFound, "La imagen no existe."},
	{service.ErrDocumentNotFound, http.StatusNotFound, "El documento no existe."},
	{service.ErrBoardMemberNotFound, http.StatusNotFound, "El miembro de la junta no existe."},
	{service.ErrCategoryNotFound, http.StatusNotFound, "La categoría no existe."},
	{service.ErrPageLimitReached, http.StatusConflict, "Ya existe una página de este tipo."},
	{service.ErrPageSlugTaken, http.StatusConflict, "Ya existe una página con ese slug en el mismo nivel."},
	{service.ErrCategoryExists, http.StatusConflict, "La categoría ya existe."},
	{service.ErrPageTypeUnknown, http.StatusBadRequest, "Tipo de página desconocido."},
	{service.ErrPageNotAllowedHere, http.StatusBadRequest, "Este tipo de página no se puede crear aquí."},
	{service.ErrPageMoveIntoSubtree, http.StatusBadRequest, "Una página no se puede mover debajo de sí misma."},
	{service.ErrPageOrder, http.StatusBadRequest, "El orden indicado no es válido."},
	{service.ErrBoardMemberOrder, http.StatusBadRequest, "El orden indicado no es válido."},
	{service.ErrGalleryImageMissing, http.StatusBadRequest, "Selecciona una imagen."},
	{service.ErrUnsupportedImage, http.StatusBadRequest, "Formato de imagen no admitido."},
	{service.ErrUnsupportedDocument, http.StatusBadRequest, "Tipo de documento no admitido."},
	{service.ErrUploadTooLarge, http.StatusRequestEntityTooLarge, "El archivo supera el tamaño máximo permitido."},
}

// respondServiceError maps service errors to status codes. Validation errors carry their
// per-field messages; anything unknown is logged and answered with fallback.
func (a *API) respondServiceError(c *gin.Context, err error, fallback string) {
	if fields := service.FieldErrors(err); fields != nil {
		respondValidation(c, fields)
		return
	}
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			respondError(c, m.status, m.message)
			return
		}
	}
	a.logger.Error(fallback, "path", c.Request.URL.Path, "error", err)
	respondError(c, http.StatusInternalServerError, fallback)
}
