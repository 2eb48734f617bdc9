package handlers

import (
	"net/http"
	"restaurant_ordering/internal/logger"
	"restaurant_ordering/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menuService services.MenuService
	log         *logger.Logger
}

func NewMenuHandler(menuService services.MenuService, log *logger.Logger) *MenuHandler {
	return &MenuHandler{menuService: menuService, log: log}
}

func (h *MenuHandler) ListCategories(c *gin.Context) {
	categories, err := h.menuService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	category, err := h.menuService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *MenuHandler) ListItems(c *gin.Context) {
	var categoryID *uint
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"category": "must be a category id"}})
			return
		}
		v := uint(id)
		categoryID = &v
	}

	items, err := h.menuService.ListItems(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) GetItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := h.menuService.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) Featured(c *gin.Context) {
	items, err := h.menuService.FeaturedItems(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) Search(c *gin.Context) {
	page := pagination(c)
	items, count, err := h.menuService.Search(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondPage(c, page, count, items)
}

func (h *MenuHandler) CreateItem(c *gin.Context) {
	var req services.MenuItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	item, err := h.menuService.CreateItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) UpdateItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.MenuItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	item, err := h.menuService.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) SetItemDetails(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.ItemDetailsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	item, err := h.menuService.SetItemDetails(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) DeleteItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.menuService.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MenuHandler) TodaySpecial(c *gin.Context) {
	special, err := h.menuService.TodaySpecial(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, special)
}

func (h *MenuHandler) CreateSpecial(c *gin.Context) {
	var req services.SpecialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	special, err := h.menuService.CreateSpecial(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, special)
}
