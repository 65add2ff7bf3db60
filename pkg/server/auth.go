package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/haneul-mud/haneul/pkg/crypt"
	"github.com/haneul-mud/haneul/pkg/gamedb"
)

// ErrInvalidCredentials is returned for an unknown name or wrong password.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Claims holds the JWT claims for an authenticated player session.
type Claims struct {
	PlayerID   gamedb.PlayerID `json:"player_id"`
	PlayerName string          `json:"player_name"`
	jwt.RegisteredClaims
}

// AuthService provides JWT-based authentication bound to player identity.
type AuthService struct {
	store  PlayerStore
	audit  *AuditLog
	jwtKey []byte
	expiry time.Duration
}

// NewAuthService creates an auth service. If jwtSecret is empty, a random
// 32-byte key is generated.
func NewAuthService(store PlayerStore, audit *AuditLog, jwtSecret string, expirySeconds int) *AuthService {
	var key []byte
	if jwtSecret != "" {
		key = []byte(jwtSecret)
	} else {
		key = make([]byte, 32)
		rand.Read(key)
	}
	expiry := 24 * time.Hour
	if expirySeconds > 0 {
		expiry = time.Duration(expirySeconds) * time.Second
	}
	return &AuthService{
		store:  store,
		audit:  audit,
		jwtKey: key,
		expiry: expiry,
	}
}

// Login authenticates a player and returns a JWT token.
func (a *AuthService) Login(name, password, host string) (string, error) {
	rec, err := a.store.GetByName(name)
	if err != nil || rec.Flags&gamedb.PlrDeleted != 0 {
		return "", ErrInvalidCredentials
	}
	if err := crypt.Check(password, rec.Password); err != nil {
		a.audit.RecordLogin(rec.Name, host, "web_"+loginBadPW)
		return "", ErrInvalidCredentials
	}
	return a.issue(rec.ID, rec.Name)
}

func (a *AuthService) issue(id gamedb.PlayerID, name string) (string, error) {
	now := time.Now()
	claims := Claims{
		PlayerID:   id,
		PlayerName: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(int64(id), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiry)),
			Issuer:    "haneul",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(a.jwtKey)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return s, nil
}

// ValidateToken parses and validates a JWT token string.
func (a *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.jwtKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	return claims, nil
}

// RefreshToken creates a new token with a fresh expiry for an existing valid token.
func (a *AuthService) RefreshToken(tokenStr string) (string, error) {
	claims, err := a.ValidateToken(tokenStr)
	if err != nil {
		return "", err
	}
	return a.issue(claims.PlayerID, claims.PlayerName)
}

// GenerateJWTSecret generates a random hex-encoded secret suitable for jwt_secret config.
func GenerateJWTSecret() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
