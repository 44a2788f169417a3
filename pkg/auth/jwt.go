package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/domain"
)

var (
	ErrTokenExpired = errors.New("session token has expired")
	ErrTokenInvalid = errors.New("session token is invalid")
)

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

// SessionManager mints and validates the signed tokens that carry the
// acting identity between invocations.
type SessionManager struct {
	cfg config.SessionConfig
}

func NewSessionManager(cfg config.SessionConfig) *SessionManager {
	return &SessionManager{cfg: cfg}
}

// Issue signs a token for the staff member and returns it with the
// session it encodes.
func (m *SessionManager) Issue(staff *domain.StaffMember) (string, *domain.Session, error) {
	now := time.Now()
	expiresAt := now.Add(m.cfg.TTL)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.cfg.Issuer,
			Subject:   strconv.FormatUint(uint64(staff.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now.Add(-10 * time.Second)),
		},
		Email: staff.Email,
		Role:  string(staff.Role),
		Name:  staff.FullName(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", nil, err
	}

	return signed, &domain.Session{
		StaffID:   staff.ID,
		Email:     staff.Email,
		Role:      staff.Role,
		Name:      claims.Name,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate parses a token back into the session it encodes.
func (m *SessionManager) Validate(tokenString string) (*domain.Session, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.cfg.Secret), nil
		},
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	staffID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return &domain.Session{
		StaffID:   uint(staffID),
		Email:     claims.Email,
		Role:      domain.Role(claims.Role),
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
