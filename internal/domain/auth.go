package domain

// ActorRole differentiates the callers of the request desk.
type ActorRole string

const (
	RoleRequester ActorRole = "REQUESTER"
	RoleManager   ActorRole = "MANAGER"
	RoleAdmin     ActorRole = "ADMIN"
)

// Valid reports whether r is a known role.
func (r ActorRole) Valid() bool {
	switch r {
	case RoleRequester, RoleManager, RoleAdmin:
		return true
	}
	return false
}
