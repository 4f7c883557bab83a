package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/service"
)

type galleryImagePayload struct {
	ImageID uint   `json:"image_id"`
	Caption string `json:"caption"`
}

func (p galleryImagePayload) toInput() service.GalleryImageInput {
	return service.GalleryImageInput{ImageID: p.ImageID, Caption: p.Caption}
}

type galleryImagesRequest struct {
	Images []galleryImagePayload `json:"images"`
}

// GetGalleryImages lists the ordered images of gallery page :id.
func (a *API) GetGalleryImages(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	items, err := a.galleries.Images(id)
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido cargar la galería.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": items})
}

// SetGalleryImages replaces the images of a gallery, keeping the posted order.
func (a *API) SetGalleryImages(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req galleryImagesRequest
	if !bindJSON(c, &req, "Datos de galería no válidos.") {
		return
	}
	inputs := make([]service.GalleryImageInput, 0, len(req.Images))
	for _, item := range req.Images {
		inputs = append(inputs, item.toInput())
	}

	items, err := a.galleries.SetImages(id, inputs)
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido guardar la galería.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Galería guardada.", "images": items})
}

// AddGalleryImage appends one image to a gallery.
func (a *API) AddGalleryImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload galleryImagePayload
	if !bindJSON(c, &payload, "Datos de imagen no válidos.") {
		return
	}

	item, err := a.galleries.AddImage(id, payload.toInput())
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido añadir la imagen.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Imagen añadida.", "image": item})
}
