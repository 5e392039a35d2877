// Package auth issues and validates session tokens for dashboard viewers.
//
// The upstream SMART-on-FHIR launch happens outside this service: once the
// launch completes, the frontend exchanges its context for a short-lived
// session token scoped to one patient. Every dashboard request carries that
// token as a Bearer credential.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenExpiry is how long session tokens are valid. Dashboards are
// short consultations; an hour covers one sitting without leaving long-lived
// credentials around.
const SessionTokenExpiry = 1 * time.Hour

// Predefined token errors.
var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token has expired")
)

// SessionClaims represents the claims in a dashboard session token.
type SessionClaims struct {
	jwt.RegisteredClaims

	// PatientID is the FHIR logical ID the session is scoped to. A token
	// grants access to exactly one patient's dashboard.
	PatientID string `json:"pid"`
}

// SessionService handles session token creation and validation.
type SessionService struct {
	signingKey []byte
	issuer     string
	audience   string
}

// SessionConfig holds configuration for the session service.
type SessionConfig struct {
	// SigningKey is the secret key used to sign tokens.
	SigningKey string

	// Issuer is the issuer claim for tokens.
	Issuer string

	// Audience is the audience claim for tokens.
	Audience string
}

// NewSessionService creates a new session service.
func NewSessionService(cfg SessionConfig) *SessionService {
	return &SessionService{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
	}
}

// Issue creates a session token binding a viewer to one patient.
func (s *SessionService) Issue(subject, patientID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(SessionTokenExpiry)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			ID:        generateTokenID(),
		},
		PatientID: patientID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate validates a session token and returns the claims.
func (s *SessionService) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.PatientID == "" {
		return nil, fmt.Errorf("%w: missing patient scope", ErrInvalidToken)
	}

	return claims, nil
}

// generateTokenID generates a unique token ID.
func generateTokenID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
