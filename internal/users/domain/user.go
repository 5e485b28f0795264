package domain

import "time"

// TokenReuseWindow is how much lifetime a token must have left to be handed
// out again instead of being replaced.
const TokenReuseWindow = 60 * time.Second

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // argon2id PHC string

	// Token is empty until the first issuance. After revocation it stays set
	// with TokenExpiration in the past.
	Token           string
	TokenExpiration time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PrincipalID lets an authenticated User travel through httpx middleware.
func (u User) PrincipalID() string { return u.ID }

// TokenValid reports whether u.Token authenticates at now.
func (u User) TokenValid(now time.Time) bool {
	return u.Token != "" && u.TokenExpiration.After(now)
}

// TokenReusable reports whether u.Token may be returned from a new issuance
// request at now.
func (u User) TokenReusable(now time.Time) bool {
	return u.Token != "" && u.TokenExpiration.After(now.Add(TokenReuseWindow))
}
