package handlers

import (
	"errors"
	"net/http"

	"civicdesk/middleware"
	"civicdesk/models"
	"civicdesk/services/problem"
	"civicdesk/utils"

	"github.com/gin-gonic/gin"
)

// ProblemHandler serves complaint submission and status changes.
type ProblemHandler struct {
	Service problem.ProblemService
}

func NewProblemHandler(svc problem.ProblemService) *ProblemHandler {
	return &ProblemHandler{Service: svc}
}

// SubmitProblemHandler handles POST /api/problems.
func (h *ProblemHandler) SubmitProblemHandler(c *gin.Context) {
	var input models.ProblemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid problem", err.Error())
		return
	}
	p, err := h.Service.Submit(c.Request.Context(), c.GetString(middleware.CtxUserID), input)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to submit problem", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "problem": p})
}

// GetProblemHandler handles GET /api/problems/:id.
func (h *ProblemHandler) GetProblemHandler(c *gin.Context) {
	p, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "problem": p})
}

// UpdateProblemStatusHandler handles PATCH /api/problems/:id/status.
func (h *ProblemHandler) UpdateProblemStatusHandler(c *gin.Context) {
	var update models.ProblemStatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid status update", err.Error())
		return
	}
	p, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "problem": p})
}

func (h *ProblemHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, problem.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Problem not found", err.Error())
	case errors.Is(err, problem.ErrUnknownDepartment):
		utils.JSONError(c, http.StatusBadRequest, "Unknown department", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Problem operation failed", err.Error())
	}
}
