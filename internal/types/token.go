package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID      uuid.UUID  `json:"user_id"`
	HouseholdID *uuid.UUID `json:"household_id,omitempty"`
}

// Household returns the household id as a string, or "" when the user has none.
func (c *TokenClaims) Household() string {
	if c.HouseholdID == nil {
		return ""
	}
	return c.HouseholdID.String()
}
