// Package policy holds the ownership decision applied to every task
// mutation and to list filtering. It is pure so it can be tested
// without any store.
package policy

import (
	taskdomain "github.com/taskcrate/backend/internal/task/domain"
	userdomain "github.com/taskcrate/backend/internal/user/domain"
)

// CanAccess reports whether requester may read or mutate task.
// Admin wins regardless of ownership.
func CanAccess(requester userdomain.User, task taskdomain.Task) bool {
	return requester.IsAdmin() || task.OwnerID == requester.ID
}
