package handlers

import (
	"net/http"
	"restaurant_ordering/internal/logger"
	"restaurant_ordering/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminHandler serves coupons, payment methods, the staff directory, shifts and inventory.
type AdminHandler struct {
	couponService  services.CouponService
	paymentService services.PaymentService
	staffService   services.StaffService
	log            *logger.Logger
}

func NewAdminHandler(
	couponService services.CouponService,
	paymentService services.PaymentService,
	staffService services.StaffService,
	log *logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		couponService:  couponService,
		paymentService: paymentService,
		staffService:   staffService,
		log:            log,
	}
}

func (h *AdminHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.couponService.ListCoupons(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, coupons)
}

func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	var req services.CouponInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	coupon, err := h.couponService.CreateCoupon(c.Request.Context(), currentSession(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

func (h *AdminHandler) ValidateCoupon(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	coupon, err := h.couponService.Validate(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":               true,
		"code":                coupon.Code,
		"discount_percentage": coupon.DiscountPercentage,
		"valid_until":         coupon.ValidUntil.Format("2006-01-02"),
	})
}

func (h *AdminHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.paymentService.ListMethods(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, methods)
}

func (h *AdminHandler) CreatePaymentMethod(c *gin.Context) {
	var req services.PaymentMethodInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	method, err := h.paymentService.CreateMethod(c.Request.Context(), currentSession(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, method)
}

func (h *AdminHandler) ListStaff(c *gin.Context) {
	members, err := h.staffService.ListStaff(c.Request.Context(), currentSession(c), c.Query("role"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (h *AdminHandler) CreateStaff(c *gin.Context) {
	var req services.StaffInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	member, err := h.staffService.CreateStaff(c.Request.Context(), currentSession(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *AdminHandler) ListShifts(c *gin.Context) {
	var staffID uint64
	if raw := c.Query("staff_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			badRequest(c)
			return
		}
		staffID = parsed
	}
	shifts, err := h.staffService.ListShifts(c.Request.Context(), currentSession(c), uint(staffID), c.Query("date"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, shifts)
}

func (h *AdminHandler) CreateShift(c *gin.Context) {
	var req services.ShiftInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	shift, err := h.staffService.CreateShift(c.Request.Context(), currentSession(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, shift)
}

func (h *AdminHandler) ListInventory(c *gin.Context) {
	items, err := h.staffService.ListInventory(c.Request.Context(), currentSession(c), c.Query("category"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *AdminHandler) LowStock(c *gin.Context) {
	items, err := h.staffService.LowStock(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *AdminHandler) CreateInventoryItem(c *gin.Context) {
	var req services.InventoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	item, err := h.staffService.CreateInventoryItem(c.Request.Context(), currentSession(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *AdminHandler) AdjustInventory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Delta decimal.Decimal `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	item, err := h.staffService.AdjustInventory(c.Request.Context(), currentSession(c), id, req.Delta)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "is_low_stock": item.IsLowStock()})
}
