package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL = time.Hour
	// NonceTTL matches the lifetime of a WordPress nonce
	NonceTTL = 12 * time.Hour
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateAccessToken issues a Bearer token for an authenticated admin
func GenerateAccessToken(subject, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"type": "access",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(accessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateNonce issues an anti-replay token bound to one action and subject
func GenerateNonce(subject, action, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":    subject,
		"type":   "nonce",
		"action": action,
		"jti":    uuid.New().String(),
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(NonceTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a token
func ValidateToken(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ValidateNonce checks that a nonce was issued for action and subject
func ValidateNonce(tokenString, subject, action, secret string) error {
	claims, err := ValidateToken(tokenString, secret)
	if err != nil {
		return err
	}
	if claims["type"] != "nonce" {
		return errors.New("not a nonce")
	}
	if claims["action"] != action {
		return errors.New("nonce issued for a different action")
	}
	if claims["sub"] != subject {
		return errors.New("nonce issued for a different user")
	}
	return nil
}
