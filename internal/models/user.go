package models

// Role represents a user's role as reported by the catalog API
type Role string

const (
	RoleUser       Role = "user"
	RoleSupervisor Role = "supervisor"
)

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// User represents an account as returned by the catalog API. The API owns
// all account state; this service only carries it inside the session.
type User struct {
	ID                   int     `json:"id"`
	FirstName            string  `json:"first_name"`
	LastName             string  `json:"last_name"`
	Email                string  `json:"email"`
	MobileNumber         string  `json:"mobile_number"`
	Role                 Role    `json:"role"`
	ActivePlan           string  `json:"active_plan"`
	DeviceToken          *string `json:"device_token"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
}

// IsSupervisor reports whether the user may create movies
func (u *User) IsSupervisor() bool {
	return u.Role == RoleSupervisor
}

// SignupInput represents the input for registering a new account
type SignupInput struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	MobileNumber string `json:"mobile_number" validate:"required"`
	Password     string `json:"password" validate:"required,min=8"`
}

// LoginInput represents the input for logging in
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the catalog API's response to signup/login:
// a bearer token plus the account it belongs to.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdatePreferencesInput represents the input for changing notification
// preferences. A nil device token detaches the device.
type UpdatePreferencesInput struct {
	DeviceToken          *string `json:"device_token"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
}
