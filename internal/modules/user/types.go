package user

import (
	"errors"
	"time"
)

var (
	errUserNotFound      = errors.New("user not found")
	errWrongPassword     = errors.New("wrong password")
	errUsernameTaken     = errors.New("username already taken")
	errGuestUsername     = errors.New("username reserved for guests")
	errUsernameTooShort  = errors.New("username too short")
	errPasswordTooShort  = errors.New("password too short")
)

type RegisterDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	LastLoginTime *time.Time `json:"last_login_time,omitempty"`
	LastLoginIP   string     `json:"last_login_ip,omitempty"`
	Created       time.Time  `json:"created_at"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	IP        string    `json:"ip"`
	UA        string    `json:"ua"`
	ExpiresAt time.Time `json:"expires_at"`
	LastSeen  time.Time `json:"last_seen"`
	Current   bool      `json:"current"`
}
