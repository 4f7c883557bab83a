package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/service"
)

// HealthCheck reports whether the database answers.
func (a *API) HealthCheck(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "database handle unavailable",
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "up",
	})
}

// GetClubSettings returns the club details shown in every page.
func (a *API) GetClubSettings(c *gin.Context) {
	settings, err := a.system.GetSettings()
	if err != nil {
		a.respondServiceError(c, err, "No se han podido cargar los ajustes del club.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateClubSettings saves the club details; blank values fall back to the defaults.
func (a *API) UpdateClubSettings(c *gin.Context) {
	var payload service.ClubSettings
	if !bindJSON(c, &payload, "Datos no válidos.") {
		return
	}
	settings, err := a.system.UpdateSettings(payload)
	if err != nil {
		a.respondServiceError(c, err, "No se han podido guardar los ajustes del club.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ajustes guardados.", "settings": settings})
}

type pageTypeDetail struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	AtRoot      bool     `json:"at_root"`
	ParentTypes []string `json:"parent_types"`
	ChildTypes  []string `json:"child_types"`
	MaxCount    int      `json:"max_count"`
}

// GetPageTypes describes every page type and its placement rules.
func (a *API) GetPageTypes(c *gin.Context) {
	types := service.PageTypes()
	payload := make([]pageTypeDetail, 0, len(types))
	for _, pt := range types {
		payload = append(payload, pageTypeDetail{
			Name:        pt.Name,
			Label:       pt.Label,
			AtRoot:      pt.AtRoot,
			ParentTypes: pt.ParentTypes,
			ChildTypes:  pt.ChildTypes,
			MaxCount:    pt.MaxCount,
		})
	}
	c.JSON(http.StatusOK, gin.H{"types": payload})
}
