package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/vitalens/backend/internal/domain"
)

const serverErrorMessage = "server error"

// Analyser runs the full identify-then-lookup pipeline
type Analyser interface {
	Analyse(ctx context.Context, query domain.FoodQuery) (*domain.LookupResult, error)
}

// CandidateFinder queries CIQUAL directly, without the model
type CandidateFinder interface {
	LookupWithValues(ctx context.Context, foodName string) ([]domain.Candidate, error)
	LookupBest(ctx context.Context, foodName string) (*domain.Candidate, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis Analyser
	lookup   CandidateFinder
	logger   logrus.FieldLogger
}

// NewHandler creates a new HTTP handler
func NewHandler(analysis Analyser, lookup CandidateFinder, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		analysis: analysis,
		lookup:   lookup,
		logger:   logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "vitalens-backend",
		"version": "1.0.0",
	})
}

// Analyse handles POST /api/analyse
func (h *Handler) Analyse(c *gin.Context) {
	var query domain.FoodQuery
	// An empty body is an empty query
	if err := c.ShouldBindJSON(&query); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Validate before touching any dependency
	if query.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrClientInput.Error()})
		return
	}

	if h.analysis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis service not configured"})
		return
	}

	result, err := h.analysis.Analyse(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Suggestions handles GET /api/ciqual/suggestions?aliment=
func (h *Handler) Suggestions(c *gin.Context) {
	name, ok := h.requireFoodName(c)
	if !ok {
		return
	}

	candidates, err := h.lookup.LookupWithValues(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if candidates == nil {
		candidates = []domain.Candidate{}
	}

	c.JSON(http.StatusOK, gin.H{
		"aliment":     name,
		"suggestions": candidates,
	})
}

// Best handles GET /api/ciqual/best?aliment=
func (h *Handler) Best(c *gin.Context) {
	name, ok := h.requireFoodName(c)
	if !ok {
		return
	}

	candidate, err := h.lookup.LookupBest(c.Request.Context(), name)
	if errors.Is(err, domain.ErrNoMatch) {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNoMatch.Error()})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

func (h *Handler) requireFoodName(c *gin.Context) (string, bool) {
	if h.lookup == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "lookup service not configured"})
		return "", false
	}

	name := strings.TrimSpace(c.Query("aliment"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aliment query parameter is required"})
		return "", false
	}
	return name, true
}

// respondError maps missing input to 400 and hides everything else,
// undecodable images included, behind a 500
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrClientInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrClientInput.Error()})
	default:
		requestLogger(c, h.logger).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": serverErrorMessage})
	}
}
