package api

import (
	"net/http"
	"strconv"

	"unihelper/internal/academic/repository"

	"github.com/gin-gonic/gin"
)

// Handler serves the read-only inspection API over the store.
type Handler struct {
	classes     repository.ClassRepository
	notes       repository.NoteRepository
	assignments repository.AssignmentRepository
}

func NewHandler(
	classes repository.ClassRepository,
	notes repository.NoteRepository,
	assignments repository.AssignmentRepository,
) *Handler {
	return &Handler{
		classes:     classes,
		notes:       notes,
		assignments: assignments,
	}
}

func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.classes.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list classes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

func (h *Handler) UpcomingAssignments(c *gin.Context) {
	days := 7
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	assignments, err := h.assignments.GetUpcoming(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assignments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

func (h *Handler) SearchNotes(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	notes, err := h.notes.Search(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search notes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}
