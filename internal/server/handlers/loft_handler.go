package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/service/lofts"
)

type LoftHandler struct {
	svc    *lofts.Service
	logger *zap.Logger
}

func NewLoftHandler(svc *lofts.Service, logger *zap.Logger) *LoftHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoftHandler{svc: svc, logger: logger}
}

func (h *LoftHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *LoftHandler) Mine(c *gin.Context) {
	l, err := h.svc.Mine(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *LoftHandler) Get(c *gin.Context) {
	l, err := h.svc.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *LoftHandler) Create(c *gin.Context) {
	var in lofts.Input
	if !bindJSON(c, &in) {
		return
	}
	l, err := h.svc.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *LoftHandler) Update(c *gin.Context) {
	var in lofts.UpdateInput
	if !bindJSON(c, &in) {
		return
	}
	l, err := h.svc.Update(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *LoftHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
