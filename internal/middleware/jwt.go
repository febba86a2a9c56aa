package middleware

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	pkgerrors "github.com/pkg/errors"

	"github.com/anonto42/campus-social/backend/internal/models"
)

// JWTVerifier accepts HS256 tokens carrying a user_id claim
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (uint, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, pkgerrors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return 0, pkgerrors.Wrap(err, "jwt.Verify.Parse")
	}
	if !token.Valid || claims.UserID == 0 {
		return 0, pkgerrors.New("jwt.Verify: invalid token")
	}
	return claims.UserID, nil
}

// Sign issues a token for userID valid for ttl. The server never hands tokens
// out itself; this serves tooling and tests.
func (v *JWTVerifier) Sign(userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
