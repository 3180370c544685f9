package utils

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const tokenLifetime = 15 * 24 * time.Hour

// GenerateTokenAndSetCookie signs a session token for userID and sets it as
// an httpOnly cookie on the response.
func GenerateTokenAndSetCookie(w http.ResponseWriter, userID string) error {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("JWT_SECRET not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(tokenLifetime).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    signed,
		Path:     "/",
		MaxAge:   int(tokenLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// ClearTokenCookie expires the session cookie.
func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ParseToken validates a signed session token and returns the user ID claim.
func ParseToken(tokenStr string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("token missing userId claim")
	}
	return userID, nil
}
