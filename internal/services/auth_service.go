package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulseform/feedback-service/internal/models"
	"github.com/pulseform/feedback-service/internal/repositories"
	"github.com/pulseform/feedback-service/internal/validator"
)

const bcryptCost = 10

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	secret    []byte
	tokenTTL  time.Duration
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: v,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
	}
}

type adminClaims struct {
	jwt.RegisteredClaims
}

// Register creates a new admin account.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AdminProfile, error) {
	errs := s.validator.Validate(req)
	if req.Password != "" {
		errs = append(errs, s.validator.Business().ValidatePassword(req.Password)...)
	}
	if errs.HasErrors() {
		return nil, errs
	}

	exists, err := s.repo.Admin().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Admin().Create(ctx, admin); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("admin registered", "admin_id", admin.ID, "email", admin.Email)

	return &AdminProfile{ID: admin.ID, Name: admin.Name, Email: admin.Email}, nil
}

// Login verifies credentials and issues a signed token. Unknown email
// and wrong password return the same error so the response does not
// reveal which accounts exist.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	admin, err := s.repo.Admin().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.signToken(admin.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("admin logged in", "admin_id", admin.ID)

	return &LoginResult{
		Admin: AdminProfile{ID: admin.ID, Name: admin.Name, Email: admin.Email},
		Token: token,
	}, nil
}

// VerifyToken parses a signed token and resolves the admin it names.
func (s *authService) VerifyToken(ctx context.Context, token string) (*models.Admin, error) {
	claims := &adminClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	adminID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	admin, err := s.repo.Admin().GetByID(ctx, adminID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	return admin, nil
}

func (s *authService) TokenTTL() time.Duration {
	return s.tokenTTL
}

func (s *authService) signToken(adminID uuid.UUID) (string, error) {
	now := time.Now()
	claims := adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
