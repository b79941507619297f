package models

import "github.com/golang-jwt/jwt/v5"

// Roles recognised by the API guard.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleTeacher = "TEACHER"
)

// JWTClaims are the access-token claims this service verifies. Token issuance
// belongs to the identity collaborator; only validation happens here.
type JWTClaims struct {
	UserID   string `json:"uid"`
	Role     string `json:"role"`
	SchoolID string `json:"school_id,omitempty"`
	jwt.RegisteredClaims
}
