package handlers

import (
	"net/http"

	departmentRepo "civicdesk/database/repository/department"
	"civicdesk/departments"
	"civicdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DepartmentHandler exposes the canonical department table.
type DepartmentHandler struct {
	Repo departmentRepo.DepartmentRepository
}

func NewDepartmentHandler(repo departmentRepo.DepartmentRepository) *DepartmentHandler {
	return &DepartmentHandler{Repo: repo}
}

// SetHeadRequest assigns a head user to a canonical department.
type SetHeadRequest struct {
	Department string `json:"department" binding:"required"`
	UserID     string `json:"userId" binding:"required"`
}

// SetDepartmentHeadHandler handles PUT /api/departments/head.
func (h *DepartmentHandler) SetDepartmentHeadHandler(c *gin.Context) {
	var req SetHeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid head assignment", err.Error())
		return
	}
	name, ok := departments.Canonical(req.Department)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "Unknown department", req.Department)
		return
	}
	if err := h.Repo.SetHead(c.Request.Context(), name, req.UserID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to assign department head", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "department": name, "headId": req.UserID})
}

// ListDepartmentsHandler handles GET /api/departments. Names keep their canonical
// order; head ids are attached when the store is reachable.
func (h *DepartmentHandler) ListDepartmentsHandler(c *gin.Context) {
	heads := map[string]string{}
	if h.Repo != nil {
		stored, err := h.Repo.List(c.Request.Context())
		if err != nil {
			utils.GetLogger().Warn("department list degraded to canonical names", zap.Error(err))
		}
		for _, d := range stored {
			heads[d.Name] = d.HeadID
		}
	}

	out := make([]gin.H, 0, 10)
	for _, name := range departments.Names() {
		entry := gin.H{"name": name}
		if head := heads[name]; head != "" {
			entry["headId"] = head
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "departments": out})
}
