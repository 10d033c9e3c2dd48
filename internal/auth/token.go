package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

type sessionClaims struct {
	jwt.RegisteredClaims
}

// signSessionToken wraps a session id in an HS256 JWT so the cookie value is
// tamper-evident. The id travels as jti, the username as sub. The token
// carries no exp claim: the session row holds the expiry, and the token must
// stay parseable past it so the lookup can still find and delete the row.
func signSessionToken(session Session, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:      session.ID,
			Subject: session.Username,
		},
	})
	return token.SignedString(secret)
}

// parseSessionToken verifies the token signature and returns the embedded
// session id. Expiry is checked against the session row by the caller.
func parseSessionToken(tokenString string, secret []byte) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrNoSession
		}
		return secret, nil
	})
	if err != nil || !token.Valid || claims.ID == "" {
		return "", ErrNoSession
	}
	return claims.ID, nil
}
