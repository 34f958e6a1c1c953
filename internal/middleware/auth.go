package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/jengzang/photo-timeline/pkg/apperrors"
	"github.com/jengzang/photo-timeline/pkg/response"
)

// ClaimsKey is the gin context key holding validated claims.
const ClaimsKey = "claims"

// ValidateToken checks an HS256 token against secret.
func ValidateToken(tokenString string, secret []byte) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	return claims, nil
}

// Auth requires a valid bearer token. With an empty secret every request
// passes.
func Auth(secret string, logger *zap.Logger) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) { c.Next() }
	}
	key := []byte(secret)

	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var claims *jwt.RegisteredClaims
			if claims, err = ValidateToken(token, key); err == nil {
				c.Set(ClaimsKey, claims)
				c.Next()
				return
			}
		}

		logger.Debug("Rejected request", zap.String("path", c.Request.URL.Path), zap.Error(err))
		response.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		c.Abort()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: missing authorization header", apperrors.ErrUnauthorized)
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", fmt.Errorf("%w: malformed authorization header", apperrors.ErrUnauthorized)
	}
	return parts[1], nil
}
