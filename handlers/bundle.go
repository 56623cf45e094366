// File: civicdesk/handlers/bundle.go
package handlers

import (
	userRepoPkg "civicdesk/database/repository/user"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	Notifications *NotificationHandler
	Problems      *ProblemHandler
	Departments   *DepartmentHandler
}
