package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/service"
)

type boardMemberPayload struct {
	Name      string `json:"name"`
	Callsign  string `json:"callsign"`
	Role      string `json:"role"`
	PhotoID   *uint  `json:"photo_id"`
	Email     string `json:"email"`
	SortOrder *int   `json:"sort_order"`
}

func (p boardMemberPayload) toInput() service.BoardMemberInput {
	return service.BoardMemberInput{
		Name:      p.Name,
		Callsign:  p.Callsign,
		Role:      p.Role,
		PhotoID:   p.PhotoID,
		Email:     p.Email,
		SortOrder: p.SortOrder,
	}
}

func (a *API) ListBoardMembers(c *gin.Context) {
	members, err := a.board.List()
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido cargar la junta directiva.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (a *API) CreateBoardMember(c *gin.Context) {
	var payload boardMemberPayload
	if !bindJSON(c, &payload, "Datos no válidos.") {
		return
	}
	member, err := a.board.Create(payload.toInput())
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido añadir el miembro.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Miembro añadido.", "member": member})
}

func (a *API) UpdateBoardMember(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload boardMemberPayload
	if !bindJSON(c, &payload, "Datos no válidos.") {
		return
	}
	member, err := a.board.Update(id, payload.toInput())
	if err != nil {
		a.respondServiceError(c, err, "No se ha podido guardar el miembro.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Miembro guardado.", "member": member})
}

func (a *API) DeleteBoardMember(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.board.Delete(id); err != nil {
		a.respondServiceError(c, err, "No se ha podido eliminar el miembro.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Miembro eliminado."})
}

// ReorderBoardMembers takes every member id in the new display order.
func (a *API) ReorderBoardMembers(c *gin.Context) {
	var req idsRequest
	if !bindJSON(c, &req, "Indica el nuevo orden.") {
		return
	}
	if err := a.board.Reorder(req.IDs); err != nil {
		a.respondServiceError(c, err, "No se ha podido ordenar la junta directiva.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Orden guardado."})
}
