package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	authMocks "liyu1981.xyz/ai-security-service/pkg/auth/mocks"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/identity"
	identityMocks "liyu1981.xyz/ai-security-service/pkg/identity/mocks"
	"liyu1981.xyz/ai-security-service/pkg/models"
	_ "liyu1981.xyz/ai-security-service/pkg/testing"
)

var fixedNow = time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)

func newTestBridge(t *testing.T) (*Bridge, *identityMocks.MockProvider, *authMocks.MockAccountStore) {
	ctrl := gomock.NewController(t)
	provider := identityMocks.NewMockProvider(ctrl)
	accounts := authMocks.NewMockAccountStore(ctrl)
	b := NewBridge(provider, accounts)
	b.now = func() time.Time { return fixedNow }
	return b, provider, accounts
}

func providerSession(email, role string) *identity.Session {
	return &identity.Session{
		AccessToken: "token-" + email,
		UserID:      "uid-" + email,
		Email:       email,
		Metadata:    identity.Metadata{Username: "op", Role: role},
		ExpiresAt:   fixedNow.Add(time.Hour),
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	common.SetTestLoggerNop()

	b, provider, _ := newTestBridge(t)
	provider.EXPECT().
		SignIn(gomock.Any(), "nobody@example.com", "pw").
		Return(nil, identity.ErrInvalidCredentials)

	s := NewSession()
	notified := false
	s.Subscribe(func(*models.Account) { notified = true })

	assert.False(t, b.Login(context.Background(), s, "nobody@example.com", "pw"))
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Account())
	assert.Empty(t, s.Token())
	assert.False(t, notified)
}

func TestLogin_FailureKeepsExistingSession(t *testing.T) {
	common.SetTestLoggerNop()

	b, provider, _ := newTestBridge(t)
	provider.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("network down"))

	s := NewSession()
	existing := &models.Account{ID: "a1", Email: "a@example.com", Role: models.RoleAdmin, Status: models.AccountStatusActive}
	s.set(existing, "old-token", fixedNow.Add(time.Hour))

	assert.False(t, b.Login(context.Background(), s, "other@example.com", "pw"))
	assert.Equal(t, "old-token", s.Token())
	assert.Equal(t, "a1", s.Account().ID)
}

func TestLogin_LocalAccount(t *testing.T) {
	common.SetTestLoggerNop()

	b, provider, accounts := newTestBridge(t)
	ps := providerSession("admin@security.com", "admin")
	local := &models.Account{ID: ps.UserID, Username: "admin", Email: ps.Email, Role: models.RoleAdmin, Status: models.AccountStatusActive}

	provider.EXPECT().SignIn(gomock.Any(), ps.Email, "admin123").Return(ps, nil)
	accounts.EXPECT().GetAccountByEmail(gomock.Any(), ps.Email).Return(local, nil)
	accounts.EXPECT().TouchLastLogin(gomock.Any(), ps.UserID, fixedNow).Return(nil)

	s := NewSession()
	var seen []*models.Account
	s.Subscribe(func(a *models.Account) { seen = append(seen, a) })

	require.True(t, b.Login(context.Background(), s, ps.Email, "admin123"))
	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.HasRole(models.RoleAdmin))
	assert.Equal(t, ps.AccessToken, s.Token())
	assert.Equal(t, ps.ExpiresAt, s.ExpiresAt())
	require.NotNil(t, s.Account().LastLogin)
	assert.Equal(t, fixedNow, *s.Account().LastLogin)
	require.Len(t, seen, 1)
	assert.Equal(t, "admin", seen[0].Username)
}

func TestLogin_FallbackAccount(t *testing.T) {
	common.SetTestLoggerNop()

	b, provider, accounts := newTestBridge(t)
	ps := providerSession("new@example.com", "")

	provider.EXPECT().SignIn(gomock.Any(), ps.Email, "pw").Return(ps, nil)
	accounts.EXPECT().GetAccountByEmail(gomock.Any(), ps.Email).Return(nil, errors.New("db unavailable"))
	accounts.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Return(errors.New("db unavailable"))
	accounts.EXPECT().TouchLastLogin(gomock.Any(), ps.UserID, fixedNow).Return(errors.New("db unavailable"))

	s := NewSession()
	require.True(t, b.Login(context.Background(), s, ps.Email, "pw"))

	account := s.Account()
	assert.Equal(t, ps.UserID, account.ID)
	assert.Equal(t, models.RoleViewer, account.Role)
	assert.Equal(t, models.AccountStatusActive, account.Status)
	assert.False(t, s.HasRole(models.RoleAdmin))
	assert.True(t, s.HasRole(models.RoleViewer))
}

func TestLogin_MissingLocalRowIsInserted(t *testing.T) {
	common.SetTestLoggerNop()

	b, provider, accounts := newTestBridge(t)
	ps := providerSession("missing@example.com", "viewer")

	provider.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(ps, nil)
	accounts.EXPECT().GetAccountByEmail(gomock.Any(), ps.Email).Return(nil, nil)
	accounts.EXPECT().
		CreateAccount(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *models.Account) error {
			assert.Equal(t, ps.Email, a.Email)
			assert.Equal(t, "op", a.Username)
			return nil
		})
	accounts.EXPECT().TouchLastLogin(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	assert.True(t, b.Login(context.Background(), NewSession(), ps.Email, "pw"))
}

func TestLogin_InactiveRefused(t *testing.T) {
	common.SetTestLoggerNop()

	b, provider, accounts := newTestBridge(t)
	ps := providerSession("off@example.com", "viewer")
	local := &models.Account{ID: ps.UserID, Email: ps.Email, Role: models.RoleViewer, Status: models.AccountStatusInactive}

	provider.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(ps, nil)
	accounts.EXPECT().GetAccountByEmail(gomock.Any(), ps.Email).Return(local, nil)
	provider.EXPECT().SignOut(gomock.Any(), ps.AccessToken).Return(nil)

	s := NewSession()
	assert.False(t, b.Login(context.Background(), s, ps.Email, "pw"))
	assert.False(t, s.IsAuthenticated())
}

func TestRegister(t *testing.T) {
	common.SetTestLoggerNop()

	b, provider, accounts := newTestBridge(t)
	ps := providerSession("reg@example.com", "viewer")

	provider.EXPECT().
		SignUp(gomock.Any(), ps.Email, "secret-pass", identity.Metadata{Username: "reg", Role: "viewer"}).
		Return(ps, nil)
	accounts.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Return(errors.New("duplicate"))

	s := NewSession()
	require.True(t, b.Register(context.Background(), s, "reg", ps.Email, "secret-pass"))
	assert.Equal(t, "reg", s.Account().Username)
	assert.Equal(t, models.RoleViewer, s.Account().Role)

	provider.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, identity.ErrUserAlreadyExists)
	other := NewSession()
	assert.False(t, b.Register(context.Background(), other, "reg", ps.Email, "secret-pass"))
	assert.False(t, other.IsAuthenticated())
}

func TestRegister_AdminEmails(t *testing.T) {
	common.SetTestLoggerNop()

	b, provider, accounts := newTestBridge(t)
	b.WithAdminEmails(" Owner@Example.com ", "")
	assert.Equal(t, []string{"owner@example.com"}, b.AdminEmails)

	owner := providerSession("owner@example.com", "admin")
	provider.EXPECT().
		SignUp(gomock.Any(), "OWNER@example.com", "secret-pass", identity.Metadata{Username: "owner", Role: "admin"}).
		Return(owner, nil)
	accounts.EXPECT().
		CreateAccount(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, account *models.Account) error {
			assert.Equal(t, models.RoleAdmin, account.Role)
			return nil
		})

	s := NewSession()
	require.True(t, b.Register(context.Background(), s, "owner", "OWNER@example.com", "secret-pass"))
	assert.Equal(t, models.RoleAdmin, s.Account().Role)

	// anyone else stays a viewer
	guest := providerSession("guest@example.com", "viewer")
	provider.EXPECT().
		SignUp(gomock.Any(), guest.Email, "secret-pass", identity.Metadata{Username: "guest", Role: "viewer"}).
		Return(guest, nil)
	accounts.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Return(nil)

	other := NewSession()
	require.True(t, b.Register(context.Background(), other, "guest", guest.Email, "secret-pass"))
	assert.Equal(t, models.RoleViewer, other.Account().Role)
	assert.False(t, other.HasRole(models.RoleAdmin))
}

func TestLogoutIdempotent(t *testing.T) {
	common.SetTestLoggerNop()

	b, provider, _ := newTestBridge(t)

	s := NewSession()
	s.set(&models.Account{ID: "a1"}, "tok", fixedNow.Add(time.Hour))

	var changes []*models.Account
	s.Subscribe(func(a *models.Account) { changes = append(changes, a) })

	provider.EXPECT().SignOut(gomock.Any(), "tok").Return(errors.New("already gone")).Times(1)

	b.Logout(context.Background(), s)
	b.Logout(context.Background(), s)

	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, []*models.Account{nil}, changes)
}

func TestRestore(t *testing.T) {
	common.SetTestLoggerNop()

	b, provider, accounts := newTestBridge(t)
	ps := providerSession("r@example.com", "admin")

	provider.EXPECT().GetSession(gomock.Any(), "bad").Return(nil, identity.ErrSessionNotFound)
	assert.False(t, b.Restore(context.Background(), NewSession(), "bad"))

	provider.EXPECT().GetSession(gomock.Any(), ps.AccessToken).Return(ps, nil)
	accounts.EXPECT().GetAccountByEmail(gomock.Any(), ps.Email).Return(&models.Account{
		ID: ps.UserID, Email: ps.Email, Role: models.RoleAdmin, Status: models.AccountStatusActive,
	}, nil)

	s := NewSession()
	require.True(t, b.Restore(context.Background(), s, ps.AccessToken))
	assert.True(t, s.HasRole(models.RoleAdmin))
}

func TestFallbackAccount(t *testing.T) {
	a := FallbackAccount(&identity.Session{UserID: "u1", Email: "jane.doe@example.com"}, fixedNow)
	assert.Equal(t, "jane.doe", a.Username)
	assert.Equal(t, models.RoleViewer, a.Role)
	assert.Equal(t, fixedNow, a.CreatedAt)

	admin := FallbackAccount(&identity.Session{UserID: "u2", Email: "x@y.z", Metadata: identity.Metadata{Role: "admin"}}, fixedNow)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	odd := FallbackAccount(&identity.Session{UserID: "u3", Email: "x@y.z", Metadata: identity.Metadata{Role: "root"}}, fixedNow)
	assert.Equal(t, models.RoleViewer, odd.Role)
}
