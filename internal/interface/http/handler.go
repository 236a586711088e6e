package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/opening-hours/internal/domain/hours"
)

// Handler wires the HTTP transport to the hours service.
type Handler struct {
	hoursSvc hours.Service
	logger   *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(hoursSvc hours.Service, logger *slog.Logger) *Handler {
	return &Handler{
		hoursSvc: hoursSvc,
		logger:   logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListLocations returns every configured location.
func (h *Handler) ListLocations(c *gin.Context) {
	items, err := h.hoursSvc.Locations(c.Request.Context())
	if err != nil {
		abortWithError(c, mapDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": items})
}

// Status returns whether a location is open at the requested instant (default: now).
func (h *Handler) Status(c *gin.Context) {
	resp, err := h.hoursSvc.Status(c.Request.Context(), hours.StatusRequest{
		Slug: c.Param("slug"),
		At:   c.Query("at"),
	})
	if err != nil {
		abortWithError(c, mapDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Week returns the full schedule listing with today's row highlighted.
func (h *Handler) Week(c *gin.Context) {
	resp, err := h.hoursSvc.Week(c.Request.Context(), hours.WeekRequest{
		Slug: c.Param("slug"),
		At:   c.Query("at"),
	})
	if err != nil {
		abortWithError(c, mapDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// OpeningHours returns a schema.org LocalBusiness JSON-LD document with the location's opening hours.
func (h *Handler) OpeningHours(c *gin.Context) {
	doc, err := h.hoursSvc.OpeningHours(c.Request.Context(), c.Param("slug"))
	if err != nil {
		abortWithError(c, mapDomainError(err))
		return
	}
	c.Header("Content-Type", "application/ld+json; charset=utf-8")
	c.JSON(http.StatusOK, doc)
}

// Evaluate checks an ad-hoc schedule supplied in the request body.
func (h *Handler) Evaluate(c *gin.Context) {
	var req hours.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.hoursSvc.Evaluate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, mapDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
