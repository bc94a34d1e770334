package model

// Role is the closed set of user roles known to the client.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User is the client-side projection of a server-owned user record.
// It is immutable from the client's perspective except via re-fetch.
type User struct {
	// ID is the server-assigned unique identifier.
	ID string `json:"_id"`

	// Name is the user's display name.
	Name string `json:"name"`

	// Email is the user's login email address.
	Email string `json:"email"`

	// Role is the user's role within the workspace.
	Role Role `json:"role"`
}

// Credentials is the payload submitted to the login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the payload submitted to the register endpoint.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by the login and register endpoints: the
// resolved user plus a bearer credential token.
type AuthResponse struct {
	User
	Token string `json:"token"`
}
