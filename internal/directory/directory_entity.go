package directory

type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// RootAccountID is the bootstrap admin. It can never be deleted so the
// directory always keeps at least one admin.
const RootAccountID = "admin"

type Account struct {
	ID          string `json:"id"`
	Secret      string `json:"secret"`
	DisplayName string `json:"displayName,omitempty"`
	Role        Role   `json:"role"`
	Allowance   int    `json:"allowance"`
}

func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Accounts is the full user directory, keyed by account id, persisted as
// one blob.
type Accounts map[string]Account
