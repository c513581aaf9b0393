package models

import "github.com/golang-jwt/jwt/v5"

// UserRole enumerates dashboard roles. Tokens are issued by the identity
// service; this API only validates and authorises them.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleReception UserRole = "RECEPTION"
	RoleTrainer   UserRole = "TRAINER"
	RoleMember    UserRole = "MEMBER"
)

// JWTClaims carries the identity attached to a request.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
