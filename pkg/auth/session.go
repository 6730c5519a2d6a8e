package auth

import (
	"sync"
	"time"

	"liyu1981.xyz/ai-security-service/pkg/models"
)

// Session is the local, role-aware view of one signed-in user. The zero value is signed out.
type Session struct {
	mu        sync.RWMutex
	account   *models.Account
	token     string
	expiresAt time.Time

	subscribers []subscriber
	nextID      uint64
}

type subscriber struct {
	id uint64
	fn func(*models.Account)
}

func NewSession() *Session {
	return &Session{}
}

// Account returns a copy of the signed-in account, or nil.
func (s *Session) Account() *models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return nil
	}
	account := *s.account
	return &account
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account != nil && s.token != ""
}

func (s *Session) HasRole(role models.Role) bool {
	account := s.Account()
	return account != nil && roleLevel(account.Role) >= roleLevel(role)
}

// Subscribe registers fn to be called with the new account (nil on sign-out) on every change.
func (s *Session) Subscribe(fn func(*models.Account)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) set(account *models.Account, token string, expiresAt time.Time) {
	s.mu.Lock()
	s.account = account
	s.token = token
	s.expiresAt = expiresAt
	subscribers := append([]subscriber(nil), s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subscribers {
		sub.fn(s.Account())
	}
}

func (s *Session) clear() {
	s.mu.Lock()
	wasSet := s.account != nil || s.token != ""
	s.account = nil
	s.token = ""
	s.expiresAt = time.Time{}
	subscribers := append([]subscriber(nil), s.subscribers...)
	s.mu.Unlock()

	if !wasSet {
		return
	}
	for _, sub := range subscribers {
		sub.fn(nil)
	}
}

func roleLevel(role models.Role) int {
	switch role {
	case models.RoleAdmin:
		return 2
	case models.RoleViewer:
		return 1
	default:
		return 0
	}
}
