package models

// User is a registered patient. Password holds the bcrypt hash and is never
// encoded in responses.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// Identity is the non-secret projection returned by register and login and
// kept by the client as the current user. UserID repeats ID for older clients.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserID   int64  `json:"user_id"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Email: u.Email, UserID: u.ID}
}

// RegisterRequest passwords are capped at bcrypt's 72 byte input.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,maxbytes=72" sanitize:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required" sanitize:"-"`
}

// AuthResponse is the body of a successful register or login.
type AuthResponse struct {
	Message string   `json:"message"`
	User    Identity `json:"user"`
	Token   string   `json:"token"`
}
