package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"bitacora-backend/internal/apperr"
	"bitacora-backend/internal/database"
	"bitacora-backend/internal/logger"
	"bitacora-backend/internal/models"
)

// AdminName is reserved: it is seeded from configuration and can never be
// registered.
const AdminName = "admin"

const DefaultSessionTTL = 8 * time.Hour

// SessionClaims are the claims carried by a session token. Subject holds
// the user id.
type SessionClaims struct {
	Name string      `json:"name"`
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	repo     database.Repository
	secret   []byte
	ttl      time.Duration
	cost     int
	validate *validator.Validate
	log      *logger.Logger
	now      func() time.Time
}

func NewAuthService(repo database.Repository, secret string, ttl time.Duration, log *logger.Logger) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		repo:     repo,
		secret:   []byte(secret),
		ttl:      ttl,
		cost:     bcrypt.DefaultCost,
		validate: newValidator(),
		log:      log.With("component", "AuthService"),
		now:      time.Now,
	}
}

// SetHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AuthService) SetHashCost(cost int) {
	s.cost = cost
}

// Register creates a viewer account.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := checkStruct(s.validate, &req); err != nil {
		return nil, err
	}
	if strings.EqualFold(req.Name, AdminName) {
		return nil, apperr.Conflict("name is reserved", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.repo.CreateUser(ctx, &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         models.RoleViewer,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("registered user", "user_id", user.ID.String(), "name", user.Name)
	identity := user.Identity()
	return &identity, nil
}

// VerifyCredentials distinguishes an unknown name from a wrong password.
func (s *AuthService) VerifyCredentials(ctx context.Context, name, password string) (*models.Identity, error) {
	user, err := s.repo.GetUserByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Auth(apperr.CodeUserNotFound, "user not found")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Auth(apperr.CodeInvalidCredentials, "invalid credentials")
	}
	identity := user.Identity()
	return &identity, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := checkStruct(s.validate, &req); err != nil {
		return nil, err
	}
	identity, err := s.VerifyCredentials(ctx, req.Name, req.Password)
	if err != nil {
		s.log.Warn("login rejected", "name", req.Name, "reason", apperr.From(err).Code)
		return nil, err
	}
	token, expiresAt, err := s.IssueSession(*identity)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Identity: *identity, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) IssueSession(identity models.Identity) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := SessionClaims{
		Name: identity.Name,
		Role: identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expiresAt, nil
}

// ParseSession validates a session token and returns the identity it names.
func (s *AuthService) ParseSession(tokenString string) (*models.Identity, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, apperr.Auth("", "invalid token")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.Auth("", "invalid token subject")
	}
	return &models.Identity{ID: id, Name: claims.Name, Role: claims.Role}, nil
}

// SeedAdmin creates the admin identity once. It reports whether a row was
// inserted; an existing admin keeps its password.
func (s *AuthService) SeedAdmin(ctx context.Context, password string) (bool, error) {
	if password == "" {
		return false, apperr.Validation("admin password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	created, err := s.repo.EnsureUser(ctx, &models.User{
		ID:           uuid.New(),
		Name:         AdminName,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info("seeded admin user")
	}
	return created, nil
}
