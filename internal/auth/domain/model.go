// Package domain contains core types for the auth service.
package domain

import (
	"strings"
	"time"
)

// Role is the client class a token was issued to.
type Role string

const (
	RoleMobile Role = "mobile"
	RoleBank   Role = "bank"
	RoleAdmin  Role = "admin"
)

// ParseRole maps a client type onto a Role, case-insensitively.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleMobile:
		return RoleMobile, true
	case RoleBank:
		return RoleBank, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Principal is the verified identity behind a bearer token.
type Principal struct {
	Subject string
	Role    Role
}

// LoginRequest carries the credentials posted to the login endpoint.
type LoginRequest struct {
	ClientType string
	Username   string
	Password   string
}

// LoginResult is the issued bearer token.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
