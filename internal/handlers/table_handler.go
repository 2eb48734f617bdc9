package handlers

import (
	"net/http"
	"restaurant_ordering/internal/logger"
	"restaurant_ordering/internal/services"

	"github.com/gin-gonic/gin"
)

type TableHandler struct {
	tableService services.TableService
	log          *logger.Logger
}

func NewTableHandler(tableService services.TableService, log *logger.Logger) *TableHandler {
	return &TableHandler{tableService: tableService, log: log}
}

func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.tableService.ListTables(c.Request.Context(), c.Query("available") == "true")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *TableHandler) Create(c *gin.Context) {
	var req struct {
		Number   int `json:"table_number"`
		Capacity int `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	table, err := h.tableService.CreateTable(c.Request.Context(), req.Number, req.Capacity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, table)
}

func (h *TableHandler) Reserve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		PartySize int `json:"party_size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	table, err := h.tableService.Reserve(c.Request.Context(), id, req.PartySize)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table reserved", "table": table})
}

func (h *TableHandler) Release(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	table, err := h.tableService.Release(c.Request.Context(), currentSession(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table released", "table": table})
}
