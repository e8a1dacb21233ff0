package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
	"github.com/mamadbah2/loftkeeper/internal/service/inventory"
)

type InventoryHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

func NewInventoryHandler(svc *inventory.Service, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

func (h *InventoryHandler) List(c *gin.Context) {
	category, err := queryEnum(c, "category",
		string(models.InventoryFeed),
		string(models.InventorySupplement),
		string(models.InventoryMedication),
		string(models.InventoryEquipment),
		string(models.InventoryOther))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	low, err := queryBool(c, "lowStock")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	items, err := h.svc.List(c.Request.Context(), currentUser(c), inventory.Filter{
		Category: models.InventoryCategory(category),
		LowStock: low,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var in inventory.Input
	if !bindJSON(c, &in) {
		return
	}
	item, err := h.svc.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	var in inventory.UpdateInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := h.svc.Update(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
