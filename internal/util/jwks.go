package util

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"math/big"
)

type JWKS struct {
	Keys []JWK `json:"keys"`
}

type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	Kid string `json:"kid"`
}

// SigningKeyPEM reads a JWKS document and returns the first ES256 key as a PEM
// public key, the form AuthMiddleware accepts as key material.
func SigningKeyPEM(r io.Reader) (string, error) {
	var jwks JWKS
	if err := json.NewDecoder(r).Decode(&jwks); err != nil {
		return "", fmt.Errorf("failed to parse JWKS: %w", err)
	}
	for _, key := range jwks.Keys {
		if key.Kty == "EC" && key.Alg == "ES256" {
			return ecJWKToPEM(key)
		}
	}
	return "", errors.New("no EC/ES256 key in JWKS")
}

func ecJWKToPEM(key JWK) (string, error) {
	if key.Crv != "" && key.Crv != "P-256" {
		return "", fmt.Errorf("unsupported curve %s", key.Crv)
	}
	x, err := base64.RawURLEncoding.DecodeString(key.X)
	if err != nil {
		return "", fmt.Errorf("failed to decode x coordinate: %w", err)
	}
	y, err := base64.RawURLEncoding.DecodeString(key.Y)
	if err != nil {
		return "", fmt.Errorf("failed to decode y coordinate: %w", err)
	}
	pub := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(x),
		Y:     new(big.Int).SetBytes(y),
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}
