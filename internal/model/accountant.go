package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleAccountant Role = "ACCOUNTANT"
)

// Accountant is the acting identity behind a webhook call. Rows are
// owned by the identity collaborator; this service only reads them.
type Accountant struct {
	ID    uuid.UUID
	Name  string
	Phone string // normalized digits, unique
	Role  Role
}

func (r Role) CanRunActions() bool {
	return r == RoleAdmin || r == RoleAccountant
}
