package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/enrudae/TutorToolkit/internal/services"
)

type LabelHandler struct {
	svc services.LabelService
}

func NewLabelHandler(svc services.LabelService) *LabelHandler {
	return &LabelHandler{svc: svc}
}

type createLabelReq struct {
	Title string `json:"title"`
	Color string `json:"color"`
}

func (h *LabelHandler) CreateLabel(c *gin.Context) {
	tutorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id"})
		return
	}

	var req createLabelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	label, err := h.svc.CreateLabel(tutorID, req.Title, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"label": label})
}

func (h *LabelHandler) ListLabels(c *gin.Context) {
	tutorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id"})
		return
	}

	labels, err := h.svc.ListLabels(tutorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels})
}

func (h *LabelHandler) DeleteLabel(c *gin.Context) {
	tutorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id"})
		return
	}
	labelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid label id"})
		return
	}

	if err := h.svc.DeleteLabel(tutorID, labelID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
