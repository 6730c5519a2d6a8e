package auth

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/identity"
	"liyu1981.xyz/ai-security-service/pkg/models"
)

// AccountStore is the subset of the account service the bridge needs.
type AccountStore interface {
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// Bridge mirrors identity provider sessions into local accounts. Its operations report only
// success or failure; provider errors are logged and never returned.
type Bridge struct {
	Provider    identity.Provider
	Accounts    AccountStore
	AdminEmails []string
	now         func() time.Time
}

func NewBridge(provider identity.Provider, accounts AccountStore) *Bridge {
	return &Bridge{Provider: provider, Accounts: accounts, now: time.Now}
}

// WithAdminEmails lists the emails whose self-registration creates an admin. Every other
// registration creates a viewer.
func (b *Bridge) WithAdminEmails(emails ...string) *Bridge {
	b.AdminEmails = lo.FilterMap(emails, func(email string, _ int) (string, bool) {
		email = normalizeEmail(email)
		return email, email != ""
	})
	return b
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// registrationRole is admin only for bootstrap emails.
func (b *Bridge) registrationRole(email string) models.Role {
	if lo.Contains(b.AdminEmails, normalizeEmail(email)) {
		return models.RoleAdmin
	}
	return models.RoleViewer
}

func (b *Bridge) logger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameAuth,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySession),
	)
}

// Login signs in through the provider and, on success only, fills s with the local account.
func (b *Bridge) Login(ctx context.Context, s *Session, email, password string) bool {
	logger := b.logger()

	ps, err := b.Provider.SignIn(ctx, email, password)
	if err != nil {
		logger.Warn("Sign in failed", zap.String("email", email), zap.Error(err))
		return false
	}

	account := b.resolveAccount(ctx, ps)
	if account.Status == models.AccountStatusInactive {
		logger.Warn("Sign in refused for inactive account", zap.String("account_id", account.ID))
		if err := b.Provider.SignOut(ctx, ps.AccessToken); err != nil {
			logger.Warn("Failed to sign out refused session", zap.Error(err))
		}
		return false
	}

	now := b.now()
	if err := b.Accounts.TouchLastLogin(ctx, account.ID, now); err != nil {
		logger.Warn("Failed to update last login", zap.String("account_id", account.ID), zap.Error(err))
	}
	account.LastLogin = &now

	s.set(account, ps.AccessToken, ps.ExpiresAt)
	logger.Info("Signed in", zap.String("account_id", account.ID), zap.String("role", string(account.Role)))
	return true
}

// Register creates the identity and its local account, then signs s in. A failure to write
// the local account does not fail registration.
func (b *Bridge) Register(ctx context.Context, s *Session, username, email, password string) bool {
	logger := b.logger()

	role := b.registrationRole(email)

	ps, err := b.Provider.SignUp(ctx, email, password, identity.Metadata{Username: username, Role: string(role)})
	if err != nil {
		logger.Warn("Sign up failed", zap.String("email", email), zap.Error(err))
		return false
	}

	account := &models.Account{
		ID:        ps.UserID,
		Username:  username,
		Email:     ps.Email,
		Role:      role,
		Status:    models.AccountStatusActive,
		CreatedAt: b.now(),
	}
	if account.Username == "" {
		account.Username = ps.Metadata.Username
	}
	if err := b.Accounts.CreateAccount(ctx, account); err != nil {
		logger.Warn("Failed to create local account", zap.String("email", ps.Email), zap.Error(err))
	}

	s.set(account, ps.AccessToken, ps.ExpiresAt)
	logger.Info("Registered", zap.String("account_id", account.ID), zap.String("role", string(role)))
	return true
}

// Logout signs out at the provider and clears s. Calling it on a signed-out session is a no-op.
func (b *Bridge) Logout(ctx context.Context, s *Session) {
	token := s.Token()
	if token == "" {
		s.clear()
		return
	}
	if err := b.Provider.SignOut(ctx, token); err != nil {
		b.logger().Warn("Provider sign out failed", zap.Error(err))
	}
	s.clear()
}

// Restore rebuilds s from an existing access token.
func (b *Bridge) Restore(ctx context.Context, s *Session, token string) bool {
	ps, err := b.Provider.GetSession(ctx, token)
	if err != nil {
		b.logger().Debug("Session restore failed", zap.Error(err))
		return false
	}

	account := b.resolveAccount(ctx, ps)
	if account.Status == models.AccountStatusInactive {
		return false
	}

	s.set(account, ps.AccessToken, ps.ExpiresAt)
	return true
}

// resolveAccount finds the local account for a provider session, substituting a minimal account
// built from provider metadata when the lookup fails or finds nothing.
func (b *Bridge) resolveAccount(ctx context.Context, ps *identity.Session) *models.Account {
	account, err := b.Accounts.GetAccountByEmail(ctx, ps.Email)
	if err == nil && account != nil {
		return account
	}

	logger := b.logger()
	if err != nil {
		logger.Warn("Local account lookup failed, using fallback", zap.String("email", ps.Email), zap.Error(err))
	}

	fallback := FallbackAccount(ps, b.now())
	if err := b.Accounts.CreateAccount(ctx, fallback); err != nil {
		logger.Warn("Failed to store fallback account", zap.String("email", ps.Email), zap.Error(err))
	}
	return fallback
}

// FallbackAccount builds an active account from provider session data. The role is viewer
// unless the provider says admin.
func FallbackAccount(ps *identity.Session, now time.Time) *models.Account {
	role := models.RoleViewer
	if models.Role(ps.Metadata.Role) == models.RoleAdmin {
		role = models.RoleAdmin
	}

	username := ps.Metadata.Username
	if username == "" {
		username = strings.Split(ps.Email, "@")[0]
	}

	return &models.Account{
		ID:        ps.UserID,
		Username:  username,
		Email:     ps.Email,
		Role:      role,
		Status:    models.AccountStatusActive,
		CreatedAt: now,
	}
}
