package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	z "github.com/Oudwins/zog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/db"
	"liyu1981.xyz/ai-security-service/pkg/models"
)

type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// LocalProvider keeps identities in the service database and issues HS256 access tokens.
type LocalProvider struct {
	Db     *db.DB
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	revoked   map[string]time.Time
	listeners []listener
	nextID    uint64
}

type listener struct {
	id uint64
	fn func(SessionEvent)
}

var (
	emailValidator    = z.String().Email().Required()
	passwordValidator = z.String().Min(6).Required()
)

func NewLocalProvider(dbInstance *db.DB, secret string, ttl time.Duration) *LocalProvider {
	return &LocalProvider{
		Db:      dbInstance,
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

// WithClock replaces the time source used to issue and check tokens.
func (p *LocalProvider) WithClock(now func() time.Time) *LocalProvider {
	p.now = now
	return p
}

func (p *LocalProvider) logger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameAuth,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryIdentity),
	)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string, meta Metadata) (*Session, error) {
	email = normalizeEmail(email)
	if issues := emailValidator.Validate(&email); issues != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidCredentials)
	}
	if issues := passwordValidator.Validate(&password); issues != nil {
		return nil, fmt.Errorf("%w: password too short", ErrInvalidCredentials)
	}

	var existing int64
	if err := p.Db.Conn.WithContext(ctx).Model(&models.Identity{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check identity: %w", err)
	}
	if existing > 0 {
		return nil, ErrUserAlreadyExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if meta.Role == "" {
		meta.Role = string(models.RoleViewer)
	}
	if meta.Username == "" {
		meta.Username = strings.Split(email, "@")[0]
	}

	identity := models.Identity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Username:     meta.Username,
		Role:         models.Role(meta.Role),
		CreatedAt:    p.now(),
	}
	if err := p.Db.Insert(ctx, models.TableIdentities, &identity); err != nil {
		return nil, err
	}

	session, err := p.issue(identity)
	if err != nil {
		return nil, err
	}

	p.logger().Info("Identity created", zap.String("user_id", identity.ID), zap.String("email", email))
	p.emit(SessionEvent{Kind: SessionSignedUp, Session: session})
	return session, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	var identity models.Identity
	err := p.Db.Conn.WithContext(ctx).First(&identity, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	if !VerifyPassword(identity.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	session, err := p.issue(identity)
	if err != nil {
		return nil, err
	}

	p.logger().Info("Signed in", zap.String("user_id", identity.ID))
	p.emit(SessionEvent{Kind: SessionSignedIn, Session: session})
	return session, nil
}

func (p *LocalProvider) SignOut(ctx context.Context, accessToken string) error {
	session, claims, err := p.parse(accessToken)
	if err != nil {
		return err
	}

	p.mu.Lock()
	now := p.now()
	for jti, exp := range p.revoked {
		if exp.Before(now) {
			delete(p.revoked, jti)
		}
	}
	p.revoked[claims.ID] = claims.ExpiresAt.Time
	p.mu.Unlock()

	p.logger().Info("Signed out", zap.String("user_id", session.UserID))
	p.emit(SessionEvent{Kind: SessionSignedOut, Session: session})
	return nil
}

func (p *LocalProvider) GetSession(ctx context.Context, accessToken string) (*Session, error) {
	session, _, err := p.parse(accessToken)
	return session, err
}

func (p *LocalProvider) OnSessionChange(fn func(SessionEvent)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners = append(p.listeners, listener{id: id, fn: fn})

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, l := range p.listeners {
			if l.id == id {
				p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

func (p *LocalProvider) emit(ev SessionEvent) {
	p.mu.Lock()
	listeners := append([]listener(nil), p.listeners...)
	p.mu.Unlock()

	for _, l := range listeners {
		l.fn(ev)
	}
}

func (p *LocalProvider) issue(identity models.Identity) (*Session, error) {
	issuedAt := p.now()
	expiresAt := issuedAt.Add(p.ttl)

	claims := &Claims{
		Email:    identity.Email,
		Username: identity.Username,
		Role:     string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return sessionFromClaims(token, claims), nil
}

func (p *LocalProvider) parse(accessToken string) (*Session, *Claims, error) {
	if accessToken == "" {
		return nil, nil, ErrSessionNotFound
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now), jwt.WithExpirationRequired())
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, nil, ErrSessionExpired
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}

	p.mu.Lock()
	_, revoked := p.revoked[claims.ID]
	p.mu.Unlock()
	if revoked {
		return nil, nil, ErrSessionNotFound
	}

	return sessionFromClaims(accessToken, claims), claims, nil
}

func sessionFromClaims(token string, claims *Claims) *Session {
	return &Session{
		AccessToken: token,
		UserID:      claims.Subject,
		Email:       claims.Email,
		Metadata: Metadata{
			Username: claims.Username,
			Role:     claims.Role,
		},
		ExpiresAt: claims.ExpiresAt.Time,
	}
}
