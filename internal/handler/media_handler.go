package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/service"
)

const defaultMediaPerPage = 24

func mediaListing[T any](result service.MediaListResult[T]) gin.H {
	return gin.H{
		"items":       result.Items,
		"total":       result.Total,
		"total_pages": result.TotalPages,
		"page":        result.Page,
		"per_page":    result.PerPage,
	}
}

func listParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultMediaPerPage)))
	return page, perPage
}

// uploadedFile opens the multipart "file" field.
func uploadedFile(c *gin.Context) (*multipart.FileHeader, multipart.File, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Selecciona un archivo.")
		return nil, nil, false
	}
	if header.Size > service.MaxUploadSize {
		respondError(c, http.StatusRequestEntityTooLarge, "El archivo supera el tamaño máximo permitido.")
		return nil, nil, false
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "No se ha podido leer el archivo.")
		return nil, nil, false
	}
	return header, file, true
}

// UploadImage stores an image from the multipart "file" field.
func (a *API) UploadImage(c *gin.Context) {
	header, file, ok := uploadedFile(c)
	if !ok {
		return
	}
	defer file.Close()

	img, err := a.media.SaveImage(c.PostForm("title"), header.Filename, file)
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido guardar la imagen.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Imagen subida.", "image": img})
}

// ListImages pages through the image library, newest first.
func (a *API) ListImages(c *gin.Context) {
	page, perPage := listParams(c)
	result, err := a.media.ListImages(page, perPage)
	if err != nil {
		a.respondServiceError(c, err, "No se han podido cargar las imágenes.")
		return
	}
	c.JSON(http.StatusOK, mediaListing(result))
}

// DeleteImage removes an image and every reference to it.
func (a *API) DeleteImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.media.DeleteImage(id); err != nil {
		a.respondServiceError(c, err, "No se ha podido eliminar la imagen.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Imagen eliminada."})
}

// UploadDocument stores a document from the multipart "file" field.
func (a *API) UploadDocument(c *gin.Context) {
	header, file, ok := uploadedFile(c)
	if !ok {
		return
	}
	defer file.Close()

	doc, err := a.media.SaveDocument(c.PostForm("title"), header.Filename, file)
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido guardar el documento.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Documento subido.", "document": doc})
}

func (a *API) ListDocuments(c *gin.Context) {
	page, perPage := listParams(c)
	result, err := a.media.ListDocuments(page, perPage)
	if err != nil {
		a.respondServiceError(c, err, "No se han podido cargar los documentos.")
		return
	}
	c.JSON(http.StatusOK, mediaListing(result))
}

func (a *API) DeleteDocument(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.media.DeleteDocument(id); err != nil {
		a.respondServiceError(c, err, "No se ha podido eliminar el documento.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Documento eliminado."})
}
