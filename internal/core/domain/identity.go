package domain

// IdentityKind tells directory-backed identities apart from the built-in
// superusers that exist only in process memory.
type IdentityKind int

const (
	IdentityDirectory IdentityKind = iota + 1
	IdentityBuiltIn
)

func (k IdentityKind) String() string {
	switch k {
	case IdentityDirectory:
		return "directory"
	case IdentityBuiltIn:
		return "builtin"
	default:
		return "unknown"
	}
}

// Identity is an authenticated principal as resolved by the credential
// verifier. Roles is never empty.
type Identity struct {
	Kind         IdentityKind
	Subject      string
	Roles        []Role
	PasswordHash string
	// User is the directory record; nil for built-in identities.
	User *User
}

// NewDirectoryIdentity wraps a stored user. A record without roles is
// granted RoleUser so that every principal carries at least one authority.
func NewDirectoryIdentity(u *User) *Identity {
	roles := u.Roles
	if len(roles) == 0 {
		roles = []Role{RoleUser}
	}
	return &Identity{
		Kind:         IdentityDirectory,
		Subject:      u.Email,
		Roles:        roles,
		PasswordHash: u.PasswordHash,
		User:         u,
	}
}

// NewBuiltInIdentity builds a superuser identity holding every role.
func NewBuiltInIdentity(name, passwordHash string) *Identity {
	roles := make([]Role, len(AllRoles))
	copy(roles, AllRoles)
	return &Identity{
		Kind:         IdentityBuiltIn,
		Subject:      name,
		Roles:        roles,
		PasswordHash: passwordHash,
	}
}

// HasRole reports whether the identity was granted r.
func (i *Identity) HasRole(r Role) bool {
	return HasRole(i.Roles, r)
}

// UserID returns the directory id, or "" for built-in identities.
func (i *Identity) UserID() string {
	if i.User == nil {
		return ""
	}
	return i.User.ID
}
