package handlers

import (
	"net/http"
	"restaurant_ordering/internal/logger"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/services"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	orderService  services.OrderService
	reportService services.ReportService
	log           *logger.Logger
}

func NewOrderHandler(orderService services.OrderService, reportService services.ReportService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, reportService: reportService, log: log}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req services.PlaceOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.orderService.PlaceOrder(c.Request.Context(), currentSession(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *OrderHandler) List(c *gin.Context) {
	page := pagination(c)
	orders, count, err := h.orderService.ListOrders(c.Request.Context(), currentSession(c), c.Query("status"), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondPage(c, page, count, orders)
}

func (h *OrderHandler) History(c *gin.Context) {
	page := pagination(c)
	orders, count, err := h.orderService.OrderHistory(c.Request.Context(), currentSession(c), c.Query("status"), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondPage(c, page, count, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), currentSession(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) StatusHistory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	history, err := h.orderService.StatusHistory(c.Request.Context(), currentSession(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *OrderHandler) Invoice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tip := decimal.Zero
	if raw := c.Query("tip"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"tip": "tip must be a number"}})
			return
		}
		tip = parsed
	}

	invoice, err := h.orderService.Invoice(c.Request.Context(), currentSession(c), id, tip)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *OrderHandler) ReplaceItems(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Items []services.OrderItemInput `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	order, err := h.orderService.ReplaceItems(c.Request.Context(), currentSession(c), id, req.Items)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) transition(c *gin.Context, apply func(*gin.Context, *services.Session, uint) (*models.Order, error)) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := apply(c, currentSession(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, func(c *gin.Context, s *services.Session, id uint) (*models.Order, error) {
		return h.orderService.Cancel(c.Request.Context(), s, id)
	})
}

func (h *OrderHandler) Process(c *gin.Context) {
	h.transition(c, func(c *gin.Context, s *services.Session, id uint) (*models.Order, error) {
		return h.orderService.StartProcessing(c.Request.Context(), s, id)
	})
}

func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, func(c *gin.Context, s *services.Session, id uint) (*models.Order, error) {
		return h.orderService.Complete(c.Request.Context(), s, id)
	})
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.DeleteOrder(c.Request.Context(), currentSession(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) Kitchen(c *gin.Context) {
	orders, err := h.orderService.KitchenQueue(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) DailySales(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"date": "date has wrong format, use YYYY-MM-DD"}})
			return
		}
		day = parsed
	}

	sales, err := h.reportService.DailySales(c.Request.Context(), currentSession(c), day)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}
