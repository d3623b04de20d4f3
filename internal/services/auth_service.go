package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"etatcivil/internal/cache"
	"etatcivil/internal/models"
	"etatcivil/internal/repositories"
)

var (
	ErrIdentifiantsInvalides = errors.New("email ou mot de passe incorrect")
	ErrCompteInactif         = errors.New("compte désactivé")
	ErrTokenInvalide         = errors.New("token invalide")
)

const defaultStaffTokenTTL = 120 * time.Minute

// StaffClaims are the JWT claims carried by staff access tokens. The jti is
// what the Redis blacklist keys on at logout.
type StaffClaims struct {
	UserID int `json:"user_id"`
	RoleID int `json:"role_id"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users     repositories.UtilisateurRepository
	Blacklist *cache.TokenBlacklist

	Secret   []byte
	TokenTTL time.Duration
	Now      func() time.Time
}

func NewAuthService(users repositories.UtilisateurRepository, blacklist *cache.TokenBlacklist, secret []byte, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = defaultStaffTokenTTL
	}
	return &AuthService{
		Users:     users,
		Blacklist: blacklist,
		Secret:    secret,
		TokenTTL:  ttl,
		Now:       time.Now,
	}
}

// Login checks the password against the stored bcrypt hash and returns a
// signed token for an active account. Not-found and wrong-password collapse
// into the same error so the response does not leak which emails exist.
func (s *AuthService) Login(req models.LoginRequest) (string, *models.Utilisateur, error) {
	user, err := s.Users.GetByEmail(req.Email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrIdentifiantsInvalides
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.MotDePasseHash), []byte(req.MotDePasse)); err != nil {
		return "", nil, ErrIdentifiantsInvalides
	}
	if user.Status != models.CompteActif {
		return "", nil, ErrCompteInactif
	}

	now := s.Now()
	claims := StaffClaims{
		UserID: user.ID,
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", nil, err
	}
	log.Printf("[auth][login] user=%d role=%d", user.ID, user.RoleID)
	return token, user, nil
}

// Logout blacklists the token's jti for its remaining lifetime. An already
// expired token is a no-op success.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return err
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return ErrTokenInvalide
	}
	ttl := claims.ExpiresAt.Time.Sub(s.Now())
	if err := s.Blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}
	log.Printf("[auth][logout] user=%d jti=%s", claims.UserID, claims.ID)
	return nil
}

// ParseToken verifies the signature and expiry and returns the claims.
func (s *AuthService) ParseToken(tokenString string) (*StaffClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &StaffClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalide
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalide
	}
	claims, ok := token.Claims.(*StaffClaims)
	if !ok {
		return nil, ErrTokenInvalide
	}
	return claims, nil
}

// IsRevoked reports whether the token id has been blacklisted.
func (s *AuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.Blacklist == nil || jti == "" {
		return false, nil
	}
	return s.Blacklist.IsRevoked(ctx, jti)
}

// HashPassword produces the bcrypt hash stored for a staff account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
