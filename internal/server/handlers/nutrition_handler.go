package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/service/nutrition"
)

// NutritionHandler serves feeding plans, supplements and water schedules.
type NutritionHandler struct {
	svc    *nutrition.Service
	logger *zap.Logger
}

func NewNutritionHandler(svc *nutrition.Service, logger *zap.Logger) *NutritionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NutritionHandler{svc: svc, logger: logger}
}

func (h *NutritionHandler) ListFeedingPlans(c *gin.Context) {
	items, err := h.svc.ListFeedingPlans(c.Request.Context(), currentUser(c), c.Query("loftId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *NutritionHandler) CreateFeedingPlan(c *gin.Context) {
	var in nutrition.FeedingPlanInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.svc.CreateFeedingPlan(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *NutritionHandler) UpdateFeedingPlan(c *gin.Context) {
	var in nutrition.FeedingPlanUpdate
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.svc.UpdateFeedingPlan(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *NutritionHandler) DeleteFeedingPlan(c *gin.Context) {
	if err := h.svc.DeleteFeedingPlan(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NutritionHandler) ListSupplements(c *gin.Context) {
	items, err := h.svc.ListSupplements(c.Request.Context(), currentUser(c), c.Query("loftId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *NutritionHandler) CreateSupplement(c *gin.Context) {
	var in nutrition.SupplementInput
	if !bindJSON(c, &in) {
		return
	}
	s, err := h.svc.CreateSupplement(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *NutritionHandler) UpdateSupplement(c *gin.Context) {
	var in nutrition.SupplementUpdate
	if !bindJSON(c, &in) {
		return
	}
	s, err := h.svc.UpdateSupplement(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *NutritionHandler) DeleteSupplement(c *gin.Context) {
	if err := h.svc.DeleteSupplement(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NutritionHandler) ListWaterSchedules(c *gin.Context) {
	items, err := h.svc.ListWaterSchedules(c.Request.Context(), currentUser(c), c.Query("loftId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *NutritionHandler) CreateWaterSchedule(c *gin.Context) {
	var in nutrition.WaterScheduleInput
	if !bindJSON(c, &in) {
		return
	}
	w, err := h.svc.CreateWaterSchedule(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *NutritionHandler) UpdateWaterSchedule(c *gin.Context) {
	var in nutrition.WaterScheduleUpdate
	if !bindJSON(c, &in) {
		return
	}
	w, err := h.svc.UpdateWaterSchedule(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *NutritionHandler) DeleteWaterSchedule(c *gin.Context) {
	if err := h.svc.DeleteWaterSchedule(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
