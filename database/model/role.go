package model

// Role is a bitmask of independently combinable permission flags stored
// on the user row. Role names double as the role claims attached to the
// request principal after login bridging.
type Role int64

const (
	RoleOperator Role = 1 << iota
	RoleAdmin
	RoleSysAdmin
)

var roleNames = map[Role]string{
	RoleOperator: "Operator",
	RoleAdmin:    "Admin",
	RoleSysAdmin: "SysAdmin",
}

// AllRoles lists every defined flag in ascending bit order.
var AllRoles = []Role{RoleOperator, RoleAdmin, RoleSysAdmin}

func (r Role) Has(flag Role) bool {
	return r&flag != 0
}

func (r *Role) Add(flag Role) {
	*r |= flag
}

func (r *Role) Remove(flag Role) {
	*r &^= flag
}

// Flags returns every individual flag set on r, ascending bit order.
func (r Role) Flags() []Role {
	flags := make([]Role, 0, len(AllRoles))
	for _, flag := range AllRoles {
		if r.Has(flag) {
			flags = append(flags, flag)
		}
	}
	return flags
}

// Names returns the names of all flags set on r, ascending bit order.
func (r Role) Names() []string {
	names := make([]string, 0, len(AllRoles))
	for _, flag := range AllRoles {
		if r.Has(flag) {
			names = append(names, roleNames[flag])
		}
	}
	return names
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	names := r.Names()
	if len(names) == 0 {
		return "None"
	}
	out := names[0]
	for _, n := range names[1:] {
		out += "|" + n
	}
	return out
}

// RoleFromName resolves a single flag by its name, case-sensitively.
func RoleFromName(name string) (Role, bool) {
	for flag, n := range roleNames {
		if n == name {
			return flag, true
		}
	}
	return 0, false
}
