package services

import (
	"context"
	"time"

	"tradejournal/internal/db"
	"tradejournal/internal/models"
	"tradejournal/internal/store"

	"github.com/jmoiron/sqlx"
	zlog "github.com/rs/zerolog/log"
)

const (
	AuditUserDeleted     = "user.deleted"
	AuditUserActivated   = "user.activated"
	AuditUserDeactivated = "user.deactivated"
	AuditUserRoleChanged = "user.role_changed"
	AuditProfilePicture  = "user.profile_picture_changed"
)

type UserService struct {
	txRunner db.TxRunner
	users    UserStore
	plans    TradingPlanStore
	cascade  planCascade
	audit    AuditStore
}

func NewUserService(txRunner db.TxRunner, users UserStore, plans TradingPlanStore, trades TradeStore, journals JournalStore, performances PerformanceStore, audit AuditStore) *UserService {
	return &UserService{
		txRunner: txRunner,
		users:    users,
		plans:    plans,
		cascade:  planCascade{trades: trades, journals: journals, performances: performances},
		audit:    audit,
	}
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *UserService) AuditLog(ctx context.Context, limit, offset int) ([]store.AuditEntry, error) {
	return s.audit.List(ctx, limit, offset)
}

// SetProfilePicture stores a file name under /static/profile_pictures/; nil
// clears it.
func (s *UserService) SetProfilePicture(ctx context.Context, userID string, filename *string) (*models.User, error) {
	return s.mutate(ctx, userID, userID, AuditProfilePicture, models.Document{}, func(user *models.User, now time.Time) error {
		return user.SetProfilePicture(filename, now)
	})
}

func (s *UserService) SetActive(ctx context.Context, actorID, userID string, active bool) (*models.User, error) {
	action := AuditUserDeactivated
	if active {
		action = AuditUserActivated
	}
	return s.mutate(ctx, actorID, userID, action, models.Document{}, func(user *models.User, _ time.Time) error {
		user.IsActive = active
		return nil
	})
}

func (s *UserService) SetRole(ctx context.Context, actorID, userID, role string) (*models.User, error) {
	return s.mutate(ctx, actorID, userID, AuditUserRoleChanged, models.NewDocument(map[string]any{"role": role}), func(user *models.User, _ time.Time) error {
		user.Role = role
		return user.Validate()
	})
}

func (s *UserService) mutate(ctx context.Context, actorID, userID, action string, data models.Document, fn func(*models.User, time.Time) error) (*models.User, error) {
	var updated *models.User
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := fn(user, now); err != nil {
			return err
		}
		user.UpdatedAt = now
		if err := s.users.Update(ctx, tx, user); err != nil {
			return err
		}
		updated = user
		return s.audit.Log(ctx, tx, store.AuditEntry{
			ActorUserID: actorRef(actorID),
			Action:      action,
			EntityType:  "user",
			EntityID:    userID,
			Data:        data,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the user and everything filed under their trading plans in
// one transaction. Strategies are shared and stay.
func (s *UserService) Delete(ctx context.Context, actorID, userID string) error {
	var total cascadeCounts
	var plans int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		total = cascadeCounts{}
		if _, err := s.users.GetForUpdate(ctx, tx, userID); err != nil {
			return err
		}
		planIDs, err := s.plans.IDsByUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		for _, planID := range planIDs {
			counts, err := s.cascade.deleteChildren(ctx, tx, planID)
			if err != nil {
				return err
			}
			total = total.add(counts)
		}
		if plans, err = s.plans.DeleteByUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := s.audit.Log(ctx, tx, store.AuditEntry{
			ActorUserID: actorRef(actorID),
			Action:      AuditUserDeleted,
			EntityType:  "user",
			EntityID:    userID,
			Data: models.NewDocument(map[string]any{
				"trading_plans": plans,
				"trades":        total.Trades,
				"journals":      total.Journals,
				"performances":  total.Performances,
			}),
		}); err != nil {
			return err
		}
		return s.users.Delete(ctx, tx, userID)
	})
	if err != nil {
		return err
	}
	zlog.Info().
		Str("user_id", userID).
		Str("actor_user_id", actorID).
		Int64("trading_plans", plans).
		Int64("trades", total.Trades).
		Msg("user deleted")
	return nil
}

// actorRef is nil for operator actions run outside a user session.
func actorRef(actorID string) *string {
	if actorID == "" {
		return nil
	}
	return &actorID
}
