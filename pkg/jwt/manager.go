package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrWrongType    = errors.New("wrong token type")
)

// Token types carried in the "typ" claim
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims portal JWT payload
type Claims struct {
	jwt.RegisteredClaims
	UserID    uint64 `json:"uid"`
	Username  string `json:"username,omitempty"`
	Role      string `json:"role,omitempty"`
	SessionID string `json:"sid,omitempty"`
	TokenType string `json:"typ"`
}

// Manager issues and verifies HMAC-signed tokens
type Manager struct {
	secretKey       []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
	now             func() time.Time
}

// NewManager creates a Manager; lifetimes are in seconds
func NewManager(secret string, expiresIn, refreshIn int) *Manager {
	return &Manager{
		secretKey:       []byte(secret),
		accessDuration:  time.Duration(expiresIn) * time.Second,
		refreshDuration: time.Duration(refreshIn) * time.Second,
		now:             time.Now,
	}
}

// AccessDuration access token lifetime
func (m *Manager) AccessDuration() time.Duration { return m.accessDuration }

// RefreshDuration refresh token lifetime
func (m *Manager) RefreshDuration() time.Duration { return m.refreshDuration }

// GenerateAccessToken issues a short-lived access token bound to a session
func (m *Manager) GenerateAccessToken(userID uint64, username, role, sessionID string) (string, error) {
	token, _, err := m.generate(userID, username, role, sessionID, TypeAccess, m.accessDuration)
	return token, err
}

// GenerateRefreshToken issues a refresh token and returns its jti (stored on the session row)
func (m *Manager) GenerateRefreshToken(userID uint64) (token, jti string, err error) {
	return m.generate(userID, "", "", "", TypeRefresh, m.refreshDuration)
}

func (m *Manager) generate(userID uint64, username, role, sessionID, typ string, ttl time.Duration) (string, string, error) {
	now := m.now()
	jti := uuid.NewString()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID,
		Username:  username,
		Role:      role,
		SessionID: sessionID,
		TokenType: typ,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// VerifyToken validates signature and expiry
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// VerifyAccessToken validates and requires typ=access
func (m *Manager) VerifyAccessToken(tokenString string) (*Claims, error) {
	return m.verifyType(tokenString, TypeAccess)
}

// VerifyRefreshToken validates and requires typ=refresh
func (m *Manager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return m.verifyType(tokenString, TypeRefresh)
}

func (m *Manager) verifyType(tokenString, typ string) (*Claims, error) {
	claims, err := m.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != typ {
		return nil, ErrWrongType
	}
	return claims, nil
}

// ParseUnverified reads claims without checking the signature or expiry.
// Only used after a token already passed VerifyToken once.
func ParseUnverified(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
