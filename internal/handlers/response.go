package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"restaurant_ordering/internal/logger"
	"restaurant_ordering/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type paginated struct {
	Count    int64       `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Results  interface{} `json:"results"`
}

func pagination(c *gin.Context) services.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(services.DefaultPageSize)))
	return services.NewPagination(page, size)
}

func respondPage(c *gin.Context, p services.Pagination, count int64, results interface{}) {
	c.JSON(http.StatusOK, paginated{Count: count, Page: p.Page, PageSize: p.PageSize, Results: results})
}

// idParam returns false after writing a 404 when the path id is not a positive integer.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
}

// respondError maps service errors onto status codes. Unknown errors are
// logged and hidden behind a generic message.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrForbidden.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCouponInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrOrderNotEditable),
		errors.Is(err, services.ErrTableUnavailable),
		errors.Is(err, services.ErrInsufficientCapacity),
		errors.Is(err, services.ErrAlreadyReviewed),
		errors.Is(err, services.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCodeSpaceExhausted):
		log.Error(c.Request.Context(), "code_generation_failed", "unique code space exhausted", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "please retry"})
	default:
		log.Error(c.Request.Context(), "request_failed", "unhandled error", err,
			slog.String("method", c.Request.Method), slog.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
