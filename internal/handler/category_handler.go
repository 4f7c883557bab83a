package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GetCategories lists the blog categories by name.
func (a *API) GetCategories(c *gin.Context) {
	categories, err := a.blog.ListCategories()
	if err != nil {
		a.respondServiceError(c, err, "No se han podido cargar las categorías.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory adds a blog category; an empty slug is derived from the name.
func (a *API) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, "Indica el nombre de la categoría.") {
		return
	}
	category, err := a.blog.CreateCategory(req.Name, req.Slug)
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido crear la categoría.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Categoría creada.", "category": category})
}

func (a *API) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req categoryRequest
	if !bindJSON(c, &req, "Indica el nombre de la categoría.") {
		return
	}
	category, err := a.blog.UpdateCategory(id, req.Name, req.Slug)
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido guardar la categoría.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Categoría guardada.", "category": category})
}

// DeleteCategory removes a category; posts keep their other categories.
func (a *API) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.blog.DeleteCategory(id); err != nil {
		a.respondServiceError(c, err, "No se ha podido eliminar la categoría.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Categoría eliminada."})
}
