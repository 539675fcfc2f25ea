package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sautihub/sauti/internal/model"
	"github.com/sautihub/sauti/internal/store"
)

// TokenTTL is how long an issued token stays valid. Tokens are stateless:
// logout and password changes do not invalidate them before this expiry.
const TokenTTL = 24 * time.Hour

var (
	// ErrInvalidCredentials covers both unknown username and wrong password.
	// Login never distinguishes the two, to avoid username enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers missing, expired, malformed, and forged tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrUnauthorized means the caller's identity is valid but its role does
	// not permit the operation.
	ErrUnauthorized = errors.New("super-admin privileges required")

	// ErrMissingField is returned when a required credential field is empty.
	ErrMissingField = errors.New("username and password are required")
)

// HashPassword produces a salted bcrypt hash of the plaintext. bcrypt embeds
// a fresh random salt per call, so hashing the same password twice yields
// different stored values that both verify.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrMissingField
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// VerifyPassword checks the plaintext against a stored bcrypt hash using
// bcrypt's constant-time comparison. A wrong password is (false, nil); only a
// malformed stored hash is an error.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify password: %w", err)
}

// Claims is the identity a token asserts: who the admin is and what role
// they held at issuance time.
type Claims struct {
	AdminID  int64      `json:"admin_id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Session is the result of a successful login.
type Session struct {
	Token     string     `json:"access_token"`
	TokenType string     `json:"token_type"`
	ExpiresIn int        `json:"expires_in"`
	Username  string     `json:"username"`
	Role      model.Role `json:"role"`
}

// AuthService orchestrates login, password changes, token handling, and the
// super-admin gate. All collaborators are injected at startup; there are no
// package-level singletons.
type AuthService struct {
	store     *store.Store
	jwtSecret []byte
}

// NewAuthService creates an AuthService. The signing secret is process-wide
// configuration, loaded once and never rotated while the process runs.
func NewAuthService(st *store.Store, jwtSecret string) *AuthService {
	return &AuthService{
		store:     st,
		jwtSecret: []byte(jwtSecret),
	}
}

// IssueToken mints a signed token for the given admin, valid for TokenTTL
// from now.
func (s *AuthService) IssueToken(admin *model.Admin) (string, error) {
	now := time.Now()
	claims := Claims{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			Issuer:    "sauti",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken validates a bearer token and returns its claims. Any failure
// (bad signature, expiry, malformed input) collapses to ErrInvalidToken.
func (s *AuthService) VerifyToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Login authenticates a username/password pair and returns a fresh session.
// Unknown usernames and wrong passwords both fail with ErrInvalidCredentials;
// only store faults surface as distinct errors.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	admin, err := s.store.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(admin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Session{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int(TokenTTL.Seconds()),
		Username:  admin.Username,
		Role:      admin.Role,
	}, nil
}

// ChangePassword replaces the calling admin's password after verifying the
// old one. The target account comes from the verified claims, never from
// client-supplied input. Already-issued tokens stay valid until expiry.
func (s *AuthService) ChangePassword(ctx context.Context, claims *Claims, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrMissingField
	}

	admin, err := s.store.GetAdminByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	ok, err := VerifyPassword(oldPassword, admin.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.UpdateAdminPassword(ctx, admin.ID, hash)
}

// RequireSuperAdmin is the authorization gate for elevated operations. It
// re-resolves the admin record from the claims' username, so a stale token
// for a deleted or demoted account is refused even though its signature
// still verifies.
func (s *AuthService) RequireSuperAdmin(ctx context.Context, claims *Claims) (*model.Admin, error) {
	admin, err := s.store.GetAdminByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !admin.IsSuper() {
		return nil, ErrUnauthorized
	}
	return admin, nil
}

// CreateAdmin validates, hashes, and stores a new admin account. Uniqueness
// is enforced by the store's constraint, so concurrent calls for the same
// username cannot both succeed.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string, role model.Role) (*model.Admin, error) {
	if username == "" || password == "" {
		return nil, ErrMissingField
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
