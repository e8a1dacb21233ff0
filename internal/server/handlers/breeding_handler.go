package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
	"github.com/mamadbah2/loftkeeper/internal/service/breeding"
)

type BreedingHandler struct {
	svc    *breeding.Service
	logger *zap.Logger
}

func NewBreedingHandler(svc *breeding.Service, logger *zap.Logger) *BreedingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BreedingHandler{svc: svc, logger: logger}
}

func (h *BreedingHandler) ListPairings(c *gin.Context) {
	status, err := queryEnum(c, "status", string(models.PairingActive), string(models.PairingEnded))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	items, err := h.svc.ListPairings(c.Request.Context(), currentUser(c), models.PairingStatus(status))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *BreedingHandler) CreatePairing(c *gin.Context) {
	var in breeding.PairingInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.svc.CreatePairing(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *BreedingHandler) UpdatePairing(c *gin.Context) {
	var in breeding.PairingUpdate
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.svc.UpdatePairing(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *BreedingHandler) DeletePairing(c *gin.Context) {
	if err := h.svc.DeletePairing(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BreedingHandler) ListEggs(c *gin.Context) {
	eggs, err := h.svc.ListEggs(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, eggs)
}

// AddEgg serves POST /breeding/pairings/:id/eggs.
func (h *BreedingHandler) AddEgg(c *gin.Context) {
	var in breeding.EggInput
	if !bindJSON(c, &in) {
		return
	}
	e, err := h.svc.AddEgg(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *BreedingHandler) UpdateEgg(c *gin.Context) {
	var in breeding.EggUpdate
	if !bindJSON(c, &in) {
		return
	}
	e, err := h.svc.UpdateEgg(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, e)
}
