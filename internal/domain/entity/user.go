package entity

import "time"

// Roles a user account can hold. Admin accounts are provisioned out of
// band; self-registration only allows buyer and seller.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// SelfRegisterRole reports whether a role may be chosen at registration.
func SelfRegisterRole(role string) bool {
	return role == RoleBuyer || role == RoleSeller
}

// User is the aggregate root for the credential store.
// Password holds the bcrypt hash and must never cross the API boundary;
// handlers return PublicView instead.
type User struct {
	ID         string
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Role       string
	IsVerified bool
	Avatar     string
	Bio        string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PublicUser is the client-safe projection of a User.
type PublicUser struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	Avatar     string    `json:"avatar,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PublicView strips the password hash.
func (u *User) PublicView() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		Avatar:     u.Avatar,
		Bio:        u.Bio,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
