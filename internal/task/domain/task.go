package domain

import (
	"time"

	userdomain "github.com/taskcrate/backend/internal/user/domain"
)

type ID int64

type Task struct {
	ID          ID
	Title       string
	Description string
	DueDate     time.Time
	Completed   bool
	OwnerID     userdomain.ID
}

// Patch carries a partial update: nil fields keep their stored value,
// each field independently.
type Patch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Completed   *bool
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil && p.Completed == nil
}
