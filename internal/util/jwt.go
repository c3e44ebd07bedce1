package util

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of hosted-auth access token claims the API reads.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func parsePublicKey(pemKey string) (interface{}, error) {
	block, _ := pem.Decode([]byte(pemKey))
	if block == nil {
		return nil, errors.New("failed to decode PEM block containing public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return pub, nil
}

// ValidateJWT verifies tokenString with keyMaterial, which is the shared secret
// for HMAC tokens or a PEM public key for RSA/ECDSA tokens.
func ValidateJWT(tokenString string, keyMaterial string) (*Claims, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return []byte(keyMaterial), nil
		case *jwt.SigningMethodRSA:
			pub, err := parsePublicKey(keyMaterial)
			if err != nil {
				return nil, err
			}
			if k, ok := pub.(*rsa.PublicKey); ok {
				return k, nil
			}
			return nil, errors.New("public key is not RSA")
		case *jwt.SigningMethodECDSA:
			pub, err := parsePublicKey(keyMaterial)
			if err != nil {
				return nil, err
			}
			if k, ok := pub.(*ecdsa.PublicKey); ok {
				return k, nil
			}
			return nil, errors.New("public key is not ECDSA")
		default:
			return nil, fmt.Errorf("unsupported signing algorithm: %v", token.Header["alg"])
		}
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
