package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/enrudae/TutorToolkit/internal/services"
)

type LessonHandler struct {
	svc services.LessonService
}

func NewLessonHandler(svc services.LessonService) *LessonHandler {
	return &LessonHandler{svc: svc}
}

type createLessonReq struct {
	PlanID    uuid.UUID  `json:"plan_id"`
	CardID    *uuid.UUID `json:"card_id"`
	DateStart time.Time  `json:"date_start"`
	DateEnd   time.Time  `json:"date_end"`
}

func (h *LessonHandler) CreateLesson(c *gin.Context) {
	tutorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id"})
		return
	}

	var req createLessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.svc.CreateLesson(tutorID, req.PlanID, req.CardID, req.DateStart, req.DateEnd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lesson": lesson})
}

func (h *LessonHandler) ListLessons(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id"})
		return
	}
	lessons, err := h.svc.ListLessons(userID, currentUserRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

type updateLessonReq struct {
	DateStart time.Time `json:"date_start"`
	DateEnd   time.Time `json:"date_end"`
}

// UpdateLesson переносит занятие на новую дату; при смене даты старое
// напоминание снимается и ставится новое
func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	tutorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id"})
		return
	}
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson id"})
		return
	}

	var req updateLessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.svc.UpdateLesson(tutorID, lessonID, req.DateStart, req.DateEnd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": lesson})
}

// CancelLesson выполняет мягкую отмену занятия
func (h *LessonHandler) CancelLesson(c *gin.Context) {
	tutorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id"})
		return
	}
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson id"})
		return
	}

	if err := h.svc.CancelLesson(tutorID, lessonID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
