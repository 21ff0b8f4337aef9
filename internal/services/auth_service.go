package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tradejournal/internal/db"
	"tradejournal/internal/models"
	"tradejournal/internal/store"

	"github.com/jmoiron/sqlx"
	zlog "github.com/rs/zerolog/log"
)

const (
	AuditUserRegistered      = "user.registered"
	AuditUserLogin           = "user.login"
	AuditUserProvisioned     = "user.provisioned"
	AuditUserPasswordChanged = "user.password_changed"
)

type AuthService struct {
	txRunner db.TxRunner
	users    UserStore
	audit    AuditStore
	tokens   TokenIssuer
}

func NewAuthService(txRunner db.TxRunner, users UserStore, audit AuditStore, tokens TokenIssuer) *AuthService {
	return &AuthService{
		txRunner: txRunner,
		users:    users,
		audit:    audit,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Session is what a successful login hands back to the client.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user, err := models.NewUser(in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}
	if err := s.create(ctx, user, &user.ID, AuditUserRegistered, models.Document{}); err != nil {
		return nil, err
	}
	zlog.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

type ProvisionInput struct {
	Email              string
	Username           string
	Password           string
	Role               string
	SkipPasswordPolicy bool
}

// Provision creates an account on behalf of an operator. It is the only path
// that may skip the password policy, and every skip is logged and audited.
func (s *AuthService) Provision(ctx context.Context, in ProvisionInput) (*models.User, error) {
	user, err := models.NewUser(in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if in.Role != "" {
		user.Role = in.Role
	}
	var opts []models.PasswordOption
	if in.SkipPasswordPolicy {
		opts = append(opts, models.BypassPasswordPolicy())
	}
	if err := user.SetPassword(in.Password, opts...); err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	data := models.NewDocument(map[string]any{
		"role":                     user.Role,
		"password_policy_bypassed": in.SkipPasswordPolicy,
	})
	if err := s.create(ctx, user, nil, AuditUserProvisioned, data); err != nil {
		return nil, err
	}
	if in.SkipPasswordPolicy {
		zlog.Warn().Str("user_id", user.ID).Str("username", user.Username).Msg("password policy bypassed for provisioned user")
	}
	zlog.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user provisioned")
	return user, nil
}

func (s *AuthService) create(ctx context.Context, user *models.User, actorID *string, action string, data models.Document) error {
	if err := s.ensureUnique(ctx, user.Email, user.Username); err != nil {
		return err
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, store.AuditEntry{
			ActorUserID: actorID,
			Action:      action,
			EntityType:  "user",
			EntityID:    user.ID,
			Data:        data,
		})
	})
	var integrity *models.IntegrityError
	if errors.As(err, &integrity) && integrity.Kind == models.IntegrityUnique {
		return models.NewAuthError(models.AuthDuplicate, "email or username already registered")
	}
	return err
}

func (s *AuthService) ensureUnique(ctx context.Context, email, username string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return models.NewAuthError(models.AuthDuplicate, "email already registered")
	} else if !isNotFound(err) {
		return err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return models.NewAuthError(models.AuthDuplicate, "username already taken")
	} else if !isNotFound(err) {
		return err
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	invalid := models.NewAuthError(models.AuthInvalidCredentials, "invalid email or password")
	user, err := s.users.GetByEmail(ctx, email)
	if isNotFound(err) {
		zlog.Info().Msg("login rejected: unknown email")
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	ok, err := user.CheckPassword(password)
	if errors.Is(err, models.ErrPasswordNotSet) || (err == nil && !ok) {
		zlog.Info().Str("user_id", user.ID).Msg("login rejected: bad credentials")
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		zlog.Info().Str("user_id", user.ID).Msg("login rejected: account deactivated")
		return nil, models.NewAuthError(models.AuthInactive, "account is deactivated")
	}

	now := time.Now().UTC()
	user.RecordLogin(now)
	user.UpdatedAt = now
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.Update(ctx, tx, user); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, store.AuditEntry{
			ActorUserID: &user.ID,
			Action:      AuditUserLogin,
			EntityType:  "user",
			EntityID:    user.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	zlog.Info().Str("user_id", user.ID).Msg("user logged in")
	return session, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	access, err := s.tokens.AccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.RefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &Session{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh trades a refresh token for a new access token. The account must
// still exist and be active.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", models.NewAuthError(models.AuthInvalidCredentials, "invalid refresh token")
	}
	user, err := s.users.GetByID(ctx, userID)
	if isNotFound(err) {
		return "", models.NewAuthError(models.AuthInvalidCredentials, "invalid refresh token")
	}
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", models.NewAuthError(models.AuthInactive, "account is deactivated")
	}
	access, err := s.tokens.AccessToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

// ChangePassword verifies current before storing next. On any failure the
// stored hash is left as it was.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := user.ChangePassword(current, next); err != nil {
			return err
		}
		user.UpdatedAt = time.Now().UTC()
		if err := s.users.Update(ctx, tx, user); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, store.AuditEntry{
			ActorUserID: &userID,
			Action:      AuditUserPasswordChanged,
			EntityType:  "user",
			EntityID:    userID,
		})
	})
	if err != nil {
		if errors.Is(err, models.ErrAuthentication) {
			zlog.Info().Str("user_id", userID).Msg("password change rejected")
		}
		return err
	}
	zlog.Info().Str("user_id", userID).Msg("password changed")
	return nil
}
