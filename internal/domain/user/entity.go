package user

import "time"

type Role string

const (
	RoleDipendente   Role = "dipendente"
	RoleManager      Role = "manager"
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDipendente, RoleManager, RoleAdmin, RoleReceptionist:
		return true
	}
	return false
}

// User is the read-only projection of an account managed by the external
// identity provider. This core never creates or mutates users; it reads
// names and badge codes for reports and resolves roles for authorization.
type User struct {
	ID        string
	Nome      string
	Cognome   string
	BadgeCode string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
