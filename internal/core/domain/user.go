package domain

import "github.com/google/uuid"

// User is an entry from the external user/contact directory. Only the
// fields the engine needs to label per-assignee statistics are carried.
type User struct {
	ID    uuid.UUID
	Name  string
	Email string
}
