package notification

import (
	"civicdesk/departments"
	"civicdesk/models"
)

// InferDepartment picks a department label for a stored notification:
//
//  1. the first canonical name contained in message, title, recipient or department
//  2. the keyword table applied to the message
//  3. the stored department, then the raw recipient value
//  4. departments.General
func InferDepartment(n models.Notification) string {
	recipient := n.Recipient.String()

	if name, ok := departments.MatchName(n.Message, n.Title, recipient, n.Department); ok {
		return name
	}
	if name, ok := departments.MatchKeyword(n.Message); ok {
		return name
	}
	if n.Department != "" {
		return n.Department
	}
	if recipient != "" {
		return recipient
	}
	return departments.General
}
