package handlers

import (
	"net/http"
	"restaurant_ordering/internal/logger"
	"restaurant_ordering/internal/services"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	reviewService services.ReviewService
	log           *logger.Logger
}

func NewFeedbackHandler(reviewService services.ReviewService, log *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{reviewService: reviewService, log: log}
}

func (h *FeedbackHandler) ListReviews(c *gin.Context) {
	page := pagination(c)
	reviews, count, err := h.reviewService.ListReviews(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondPage(c, page, count, reviews)
}

func (h *FeedbackHandler) CreateReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	review, err := h.reviewService.CreateReview(c.Request.Context(), currentSession(c), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *FeedbackHandler) SubmitContact(c *gin.Context) {
	var req services.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	contact, err := h.reviewService.SubmitContact(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Thank you for contacting us", "contact": contact})
}

func (h *FeedbackHandler) ListContacts(c *gin.Context) {
	contacts, err := h.reviewService.ListContacts(c.Request.Context(), currentSession(c), c.Query("unresolved") == "true")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}
