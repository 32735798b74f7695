package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/enrudae/TutorToolkit/internal/services"
)

type BoardHandler struct {
	svc services.BoardService
}

func NewBoardHandler(svc services.BoardService) *BoardHandler {
	return &BoardHandler{svc: svc}
}

type createModuleReq struct {
	PlanID uuid.UUID `json:"plan_id"`
	Title  string    `json:"title"`
}

func (h *BoardHandler) CreateModule(c *gin.Context) {
	tutorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id"})
		return
	}

	var req createModuleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	module, err := h.svc.CreateModule(tutorID, req.PlanID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"module": module})
}

type renameModuleReq struct {
	Title string `json:"title"`
}

func (h *BoardHandler) RenameModule(c *gin.Context) {
	tutorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id"})
		return
	}
	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid module id"})
		return
	}

	var req renameModuleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	module, err := h.svc.RenameModule(tutorID, moduleID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"module": module})
}

func (h *BoardHandler) DeleteModule(c *gin.Context) {
	tutorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id"})
		return
	}
	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid module id"})
		return
	}

	if err := h.svc.RemoveModule(tutorID, moduleID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type moveReq struct {
	ElementType      string     `json:"element_type"`
	ElementID        uuid.UUID  `json:"element_id"`
	DestinationIndex int        `json:"destination_index"`
	DestinationID    *uuid.UUID `json:"destination_id"`
}

// Move переставляет элемент доски: "board" — модуль внутри плана,
// "task" — карточку внутри модуля или в другой модуль
func (h *BoardHandler) Move(c *gin.Context) {
	tutorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id"})
		return
	}

	var req moveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DestinationIndex < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination_index must be >= 0"})
		return
	}

	switch req.ElementType {
	case "board":
		module, err := h.svc.MoveModule(tutorID, req.ElementID, req.DestinationIndex)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"module": module})
	case "task":
		if req.DestinationID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "destination_id is required for task move"})
			return
		}
		card, err := h.svc.MoveCard(tutorID, req.ElementID, req.DestinationIndex, req.DestinationID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"card": card})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "element_type must be task or board"})
	}
}
