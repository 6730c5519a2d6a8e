package security

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/db"
	"liyu1981.xyz/ai-security-service/pkg/models"
)

func ValidRole(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleViewer
}

func (s *Security) accountLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameSecurityCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryAccount),
	)
}

// createAccount fills missing defaults on account and inserts it. The caller's struct is updated
// in place.
func (s *Security) createAccount(ctx context.Context, account *models.Account) error {
	logger := s.accountLogger()

	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	if account.Email == "" {
		return fmt.Errorf("%w: account email is required", ErrInvalidInput)
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.Username == "" {
		account.Username = strings.Split(account.Email, "@")[0]
	}
	if account.Role == "" {
		account.Role = models.RoleViewer
	}
	if !ValidRole(account.Role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, account.Role)
	}
	if account.Status == "" {
		account.Status = models.AccountStatusActive
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = s.now()
	}

	if err := s.Db.Insert(ctx, models.TableAccounts, account); err != nil {
		return err
	}

	logger.Info("Account created", zap.Reflect("account", account))
	return nil
}

func (s *Security) getAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := selectOne[models.Account](ctx, s.Db, models.TableAccounts, db.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (s *Security) getAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := selectOne[models.Account](ctx, s.Db, models.TableAccounts, db.Filter{"email": email})
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (s *Security) listAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := s.Db.Conn.WithContext(ctx).
		Order("created_at desc").
		Find(&accounts).Error
	return accounts, err
}

func (s *Security) updateAccount(ctx context.Context, id string, patch db.Patch) (*models.Account, error) {
	rows, err := s.Db.Update(ctx, models.TableAccounts, db.Filter{"id": id}, patch)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAccountNotFound
	}
	return s.getAccount(ctx, id)
}

func (s *Security) toggleStatus(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.getAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	status := models.AccountStatusInactive
	if account.Status == models.AccountStatusInactive {
		status = models.AccountStatusActive
	}

	updated, err := s.updateAccount(ctx, id, db.Patch{"status": status})
	if err != nil {
		return nil, err
	}
	s.accountLogger().Info("Account status changed", zap.String("id", id), zap.String("status", string(status)))
	return updated, nil
}

func (s *Security) setRole(ctx context.Context, id string, role models.Role) (*models.Account, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	updated, err := s.updateAccount(ctx, id, db.Patch{"role": role})
	if err != nil {
		return nil, err
	}
	s.accountLogger().Info("Account role changed", zap.String("id", id), zap.String("role", string(role)))
	return updated, nil
}

func (s *Security) touchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := s.updateAccount(ctx, id, db.Patch{"last_login": at.UTC()})
	return err
}

// deleteAccount removes the local account row only; the identity provider record is kept.
func (s *Security) deleteAccount(ctx context.Context, id string) error {
	rows, err := s.Db.Delete(ctx, models.TableAccounts, db.Filter{"id": id}, &models.Account{})
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAccountNotFound
	}
	s.accountLogger().Info("Account deleted", zap.String("id", id))
	return nil
}

type IAccountImpl struct {
	security *Security
}

func (ia *IAccountImpl) CreateAccount(ctx context.Context, account *models.Account) error {
	return ia.security.createAccount(ctx, account)
}

func (ia *IAccountImpl) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return ia.security.getAccount(ctx, id)
}

func (ia *IAccountImpl) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return ia.security.getAccountByEmail(ctx, email)
}

func (ia *IAccountImpl) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return ia.security.listAccounts(ctx)
}

func (ia *IAccountImpl) ToggleStatus(ctx context.Context, id string) (*models.Account, error) {
	return ia.security.toggleStatus(ctx, id)
}

func (ia *IAccountImpl) SetRole(ctx context.Context, id string, role models.Role) (*models.Account, error) {
	return ia.security.setRole(ctx, id, role)
}

func (ia *IAccountImpl) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return ia.security.touchLastLogin(ctx, id, at)
}

func (ia *IAccountImpl) DeleteAccount(ctx context.Context, id string) error {
	return ia.security.deleteAccount(ctx, id)
}

func (s *Security) GetIAccount() IAccount {
	return &IAccountImpl{security: s}
}
