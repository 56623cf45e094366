// File: civicdesk/handlers/notification.go
package handlers

import (
	"errors"
	"net/http"

	"civicdesk/middleware"
	"civicdesk/services/notification"
	"civicdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler serves the department feed, personal inbox and dispatch endpoints.
type NotificationHandler struct {
	Service notification.NotificationService
	Limits  notification.Limits
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(svc notification.NotificationService, limits notification.Limits) *NotificationHandler {
	return &NotificationHandler{Service: svc, Limits: limits}
}

func (h *NotificationHandler) parseLimit(c *gin.Context) (int, bool) {
	limit, err := notification.ParseLimit(c.Query("limit"), h.Limits.Default, h.Limits.Max)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid limit", err.Error())
		return 0, false
	}
	return limit, true
}

// GetDepartmentNotificationsHandler handles GET /api/notifications/department.
func (h *NotificationHandler) GetDepartmentNotificationsHandler(c *gin.Context) {
	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}

	res, err := h.Service.Resolve(c.Request.Context(), notification.ResolveQuery{
		Department: c.Query("department"),
		Type:       c.Query("type"),
		Limit:      limit,
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch department notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

// DispatchHandler handles POST /api/notifications/dispatch.
func (h *NotificationHandler) DispatchHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req notification.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid dispatch request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Service.Dispatch(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, notification.ErrInvalidDispatch) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetMyNotificationsHandler handles GET /api/notifications/me.
func (h *NotificationHandler) GetMyNotificationsHandler(c *gin.Context) {
	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}
	userID := c.GetString(middleware.CtxUserID)

	list, err := h.Service.ListForUser(c.Request.Context(), userID, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(list), "notifications": list})
}

// GetUnreadCountHandler handles GET /api/notifications/me/unread-count.
func (h *NotificationHandler) GetUnreadCountHandler(c *gin.Context) {
	count, err := h.Service.UnreadCount(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to count notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "unread": count})
}

// MarkReadHandler handles PATCH /api/notifications/:id/read.
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	id := c.Param("id")
	reader := notification.Reader{
		UserID:     c.GetString(middleware.CtxUserID),
		Role:       c.GetString(middleware.CtxRole),
		Department: c.GetString(middleware.CtxDepartment),
	}
	if err := h.Service.MarkRead(c.Request.Context(), id, reader); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Notification not found", id)
			return
		}
		if errors.Is(err, notification.ErrForbidden) {
			utils.JSONError(c, http.StatusForbidden, "Notification belongs to another user", id)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to mark notification read", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id, "read": true})
}

// MarkAllReadHandler handles PATCH /api/notifications/me/read-all.
func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	n, err := h.Service.MarkAllRead(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to mark notifications read", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": n})
}

// DeleteNotificationHandler handles DELETE /api/notifications/:id.
func (h *NotificationHandler) DeleteNotificationHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Notification not found", id)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete notification", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification deleted"})
}

// GetDispatchLogHandler handles GET /api/notifications/dispatch-log.
func (h *NotificationHandler) GetDispatchLogHandler(c *gin.Context) {
	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}
	records, err := h.Service.DispatchLog(c.Request.Context(), limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to read dispatch log", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(records), "records": records})
}
