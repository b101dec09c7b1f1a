// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package signing bridges realm key resolution and JWT handling: it
// signs tokens with a realm's active signing key and verifies them
// against whatever enabled key the token's kid names.
package signing

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/resolver"
)

var (
	// ErrUnsupportedAlgorithm is returned for JOSE algorithm names that
	// do not name a JWT signing method.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

	// ErrMissingKID is returned when a token carries no kid header.
	ErrMissingKID = errors.New("token header missing kid")

	// ErrUnknownKey is returned when no enabled realm key matches the
	// token's kid and algorithm.
	ErrUnknownKey = errors.New("no realm key matches the token")
)

// Method maps a JOSE signing algorithm name to its JWT signing method.
// Encryption algorithms such as AES and RSA-OAEP have no signing
// method and are rejected.
func Method(algorithm string) (jwt.SigningMethod, error) {
	switch algorithm {
	case keys.AlgRS256:
		return jwt.SigningMethodRS256, nil
	case keys.AlgRS384:
		return jwt.SigningMethodRS384, nil
	case keys.AlgRS512:
		return jwt.SigningMethodRS512, nil
	case keys.AlgPS256:
		return jwt.SigningMethodPS256, nil
	case keys.AlgPS384:
		return jwt.SigningMethodPS384, nil
	case keys.AlgPS512:
		return jwt.SigningMethodPS512, nil
	case keys.AlgES256:
		return jwt.SigningMethodES256, nil
	case keys.AlgES384:
		return jwt.SigningMethodES384, nil
	case keys.AlgES512:
		return jwt.SigningMethodES512, nil
	case keys.AlgHS256:
		return jwt.SigningMethodHS256, nil
	case keys.AlgHS384:
		return jwt.SigningMethodHS384, nil
	case keys.AlgHS512:
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
}

// TokenSigner signs JWTs with a realm's active signing key for one
// algorithm. The key is resolved per Sign call, so a manager rebuilt
// after a rotation is picked up without reconfiguring the signer.
type TokenSigner struct {
	Manager   resolver.Manager
	Realm     string
	Algorithm string
}

// Sign resolves the realm's active signing key, stamps its kid into
// the token header, and returns the signed compact serialization.
func (s *TokenSigner) Sign(ctx context.Context, claims jwt.Claims) (string, error) {
	method, err := Method(s.Algorithm)
	if err != nil {
		return "", err
	}

	key, err := s.Manager.ActiveKey(ctx, s.Realm, keys.UseSig, s.Algorithm)
	if err != nil {
		return "", fmt.Errorf("failed to resolve signing key for realm %s: %w", s.Realm, err)
	}

	material, err := signingMaterial(key)
	if err != nil {
		return "", fmt.Errorf("realm %s: %w", s.Realm, err)
	}

	token := jwt.NewWithClaims(method, claims)
	token.Header["kid"] = key.KID

	signed, err := token.SignedString(material)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with key %s: %w", key.KID, err)
	}
	return signed, nil
}

// Keyfunc returns a jwt.Keyfunc that resolves verification material
// through the realm's enabled keys by the token's kid and algorithm.
// Tokens naming an unknown or disabled key fail verification.
func Keyfunc(ctx context.Context, m resolver.Manager, realm string) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, ErrMissingKID
		}

		key, err := m.Key(ctx, realm, kid, keys.UseSig, token.Method.Alg())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve key %s for realm %s: %w", kid, realm, err)
		}
		if key == nil {
			return nil, fmt.Errorf("%w: realm=%s kid=%s", ErrUnknownKey, realm, kid)
		}

		if key.SecretKey != nil {
			return key.SecretKey, nil
		}
		if key.PublicKey != nil {
			return key.PublicKey, nil
		}
		return nil, fmt.Errorf("key %s has no verification material", kid)
	}
}

// signingMaterial picks the half of the key that signs: the raw secret
// for symmetric keys, the private key otherwise.
func signingMaterial(key *keys.Key) (any, error) {
	if key.SecretKey != nil {
		return key.SecretKey, nil
	}
	if key.PrivateKey != nil {
		return key.PrivateKey, nil
	}
	return nil, fmt.Errorf("active key %s has no signing material", key.KID)
}
