package store

// Role is the closed set of actor types. It is used throughout routing,
// session storage, and assistant context selection.
type Role string

const (
	RoleVehicleOwner  Role = "vehicle-owner"
	RoleGaragePartner Role = "garage-partner"
	RoleInsurance     Role = "insurance"
	RoleAdmin         Role = "admin"
)

// AllRoles returns every valid role tag.
func AllRoles() []Role {
	return []Role{RoleVehicleOwner, RoleGaragePartner, RoleInsurance, RoleAdmin}
}

// Valid reports whether the role is part of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleVehicleOwner, RoleGaragePartner, RoleInsurance, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole maps a path segment or stored tag onto a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

type User struct {
	ID           int32
	UID          string
	Email        string
	Name         string
	Phone        string
	PasswordHash string
	Role         Role
	// Profile is a JSON sub-object round-tripped verbatim.
	Profile   string
	CreatedTs int64
	UpdatedTs int64
	RowStatus RowStatus
}

type FindUser struct {
	ID        *int32
	UID       *string
	Email     *string
	Role      *Role
	RowStatus *RowStatus
	Limit     *int
}

type UpdateUser struct {
	ID           int32
	Email        *string
	Name         *string
	Phone        *string
	Profile      *string
	PasswordHash *string
	RowStatus    *RowStatus
	UpdatedTs    *int64
}

type DeleteUser struct {
	ID int32
}
