package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/domain/apperr"
	"github.com/mamadbah2/loftkeeper/internal/service/tasks"
)

type TaskHandler struct {
	svc    *tasks.Service
	logger *zap.Logger
}

func NewTaskHandler(svc *tasks.Service, logger *zap.Logger) *TaskHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskHandler{svc: svc, logger: logger}
}

// List serves GET /tasks: the occurrences of every task in the window.
func (h *TaskHandler) List(c *gin.Context) {
	w, err := h.svc.ParseWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	occ, err := h.svc.ListOccurrences(c.Request.Context(), currentUser(c), c.Query("loftId"), w)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, occ)
}

func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) Create(c *gin.Context) {
	var in tasks.CreateInput
	if !bindJSON(c, &in) {
		return
	}
	t, err := h.svc.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TaskHandler) Update(c *gin.Context) {
	var in tasks.UpdateInput
	if !bindJSON(c, &in) {
		return
	}
	t, err := h.svc.Update(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Complete serves POST /tasks/complete.
func (h *TaskHandler) Complete(c *gin.Context) {
	var in tasks.CompleteInput
	if !bindJSON(c, &in) {
		return
	}
	done, err := h.svc.Complete(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, done)
}

// Uncomplete serves DELETE /tasks/complete?taskId&date.
func (h *TaskHandler) Uncomplete(c *gin.Context) {
	taskID := c.Query("taskId")
	if taskID == "" {
		respondError(c, h.logger, apperr.Invalid("taskId", "required"))
		return
	}
	date, err := queryDate(c, "date")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.Uncomplete(c.Request.Context(), currentUser(c), taskID, date); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
