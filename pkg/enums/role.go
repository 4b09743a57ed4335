package enums

import "fmt"

// Role is the ordered permission level of a user.
type Role string

const (
	RolePublic       Role = "PUBLIC"
	RoleCollaborator Role = "COLLABORATOR"
	RoleAdmin        Role = "ADMIN"
)

var validRoles = []Role{
	RolePublic,
	RoleCollaborator,
	RoleAdmin,
}

var roleRank = map[Role]int{
	RolePublic:       1,
	RoleCollaborator: 2,
	RoleAdmin:        3,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// AtLeast reports whether r grants everything min grants.
// Unknown and empty roles never satisfy a check.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	need, ok := roleRank[min]
	if !ok {
		return false
	}
	return have >= need
}

// Capabilities is the boolean view of a role.
type Capabilities struct {
	Public       bool `json:"public"`
	Collaborator bool `json:"collaborator"`
	Admin        bool `json:"admin"`
}

// Capabilities derives the capability set for r. Higher roles imply lower ones.
func (r Role) Capabilities() Capabilities {
	return Capabilities{
		Public:       r.AtLeast(RolePublic),
		Collaborator: r.AtLeast(RoleCollaborator),
		Admin:        r.AtLeast(RoleAdmin),
	}
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
