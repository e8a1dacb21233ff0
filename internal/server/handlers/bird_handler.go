package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
	"github.com/mamadbah2/loftkeeper/internal/service/birds"
)

type BirdHandler struct {
	svc    *birds.Service
	logger *zap.Logger
}

func NewBirdHandler(svc *birds.Service, logger *zap.Logger) *BirdHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BirdHandler{svc: svc, logger: logger}
}

func (h *BirdHandler) filter(c *gin.Context) (models.BirdFilter, error) {
	f := models.BirdFilter{LoftID: c.Query("loftId"), Search: c.Query("search")}
	status, err := queryEnum(c, "status", "ACTIVE", "SOLD", "DECEASED", "LOST", "RETIRED")
	if err != nil {
		return f, err
	}
	sex, err := queryEnum(c, "sex", "MALE", "FEMALE", "UNKNOWN")
	if err != nil {
		return f, err
	}
	f.Status = models.BirdStatus(status)
	f.Sex = models.BirdSex(sex)
	if f.Page, err = queryInt(c, "page"); err != nil {
		return f, err
	}
	if f.PageSize, err = queryInt(c, "pageSize"); err != nil {
		return f, err
	}
	return f, nil
}

// List serves GET /birds with pagination metadata.
func (h *BirdHandler) List(c *gin.Context) {
	f, err := h.filter(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	page, err := h.svc.List(c.Request.Context(), currentUser(c), f)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *BirdHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *BirdHandler) Get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BirdHandler) Create(c *gin.Context) {
	var in birds.Input
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.svc.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BirdHandler) Update(c *gin.Context) {
	var in birds.UpdateInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.svc.Update(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BirdHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
