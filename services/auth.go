package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"

	"screen-ai/apperr"
	"screen-ai/config"
	"screen-ai/metrics"
	"screen-ai/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// compareHash ist in Tests austauschbar.
var compareHash = bcrypt.CompareHashAndPassword

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// unknownUserHash ist ein Hash mit den Kosten echter Passwörter. Login vergleicht
// unbekannte E-Mails dagegen, damit die Antwortzeit nichts über registrierte
// Adressen verrät.
func unknownUserHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("screen-ai-unknown-user"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// RegisterInput ist der Body von POST /api/auth/register.
type RegisterInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// AuthService verwaltet Registrierung, Login und das Auflösen von Tokens.
type AuthService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Repos  *Repos
	Tokens *TokenService
}

func NewAuthService(db *gorm.DB, logger *zap.Logger, r *Repos, tokens *TokenService) *AuthService {
	return &AuthService{DB: db, Logger: logger.With(zap.String("service", "AuthService")), Repos: r, Tokens: tokens}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.Validation("invalid email address")
	}
	return email, nil
}

// Register legt einen aktiven Benutzer an. Admins entstehen nur über EnsureAdmin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}
	role := in.Role
	if role == "" {
		role = models.RoleScientist
	}
	if !models.ValidRole(role) || role == models.RoleAdmin {
		return nil, apperr.Validation("role must be one of scientist, viewer")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:          email,
		HashedPassword: string(hash),
		FullName:       strings.TrimSpace(in.FullName),
		IsActive:       true,
		Role:           role,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.Repos.Users.EmailExists(ctx, tx, email)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("Email already registered")
		}
		return conflict(s.Repos.Users.Create(ctx, tx, user), "Email already registered")
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("User registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login prüft die Zugangsdaten und stellt ein Access-Token aus.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.Repos.Users.GetByEmail(ctx, s.DB, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	hash := unknownUserHash()
	if user != nil {
		hash = []byte(user.HashedPassword)
	}
	if compareHash(hash, []byte(password)) != nil || user == nil {
		metrics.LoginFailures.WithLabelValues("credentials").Inc()
		return "", apperr.Unauthorized("Incorrect email or password")
	}
	if !user.IsActive {
		metrics.LoginFailures.WithLabelValues("inactive").Inc()
		return "", apperr.Forbidden("Inactive user")
	}
	return s.Tokens.Issue(user.ID)
}

// Authenticate löst ein Bearer-Token zum aktiven Benutzer auf.
// Ungültige Tokens ergeben Unauthorized, deaktivierte Konten Forbidden.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, apperr.Unauthorized("Could not validate credentials")
	}
	user, err := s.Repos.Users.GetByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("Could not validate credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("Inactive user")
	}
	return user, nil
}

// EnsureAdmin legt den konfigurierten Admin an, falls er noch nicht existiert.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg *config.Config) error {
	if cfg.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is required to create the admin user")
	}
	email, err := normalizeEmail(cfg.AdminEmail)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.Repos.Users.EmailExists(ctx, tx, email)
		if err != nil || exists {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &models.User{
			Email:          email,
			HashedPassword: string(hash),
			FullName:       cfg.AdminFullName,
			IsActive:       true,
			Role:           models.RoleAdmin,
		}
		if err := s.Repos.Users.Create(ctx, tx, admin); err != nil {
			return err
		}
		s.Logger.Info("Admin user created", zap.String("email", email))
		return nil
	})
}
