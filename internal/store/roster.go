package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mentorflow/mentorflow/internal/domain"
)

// RosterStore caches the team, the profiles table, the same way ProjectStore caches
// projects.
type RosterStore struct {
	table ProfileTable
	feed  ChangeFeed

	mu      sync.RWMutex
	members []*domain.User
	watcher *watcher
	changes notifier
}

func NewRosterStore(table ProfileTable, feed ChangeFeed) *RosterStore {
	return &RosterStore{
		table:   table,
		feed:    feed,
		members: []*domain.User{},
	}
}

func (s *RosterStore) Start(ctx context.Context) error {
	_ = s.FetchAll(ctx)

	w, err := watch(ctx, s.feed, domain.TableProfiles, s.FetchAll)
	if err != nil {
		slog.Error("failed to subscribe to roster changes", "error", err)
		return err
	}

	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()
	return nil
}

func (s *RosterStore) Stop() {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	w.stop()
}

func (s *RosterStore) FetchAll(ctx context.Context) error {
	members, err := s.table.ListProfiles(ctx, "")
	if err != nil {
		slog.Error("failed to fetch team", "error", err)
		return err
	}

	cache := make([]*domain.User, 0, len(members))
	for _, m := range members {
		cache = append(cache, copyUser(m))
	}

	s.mu.Lock()
	s.members = cache
	s.mu.Unlock()

	s.changes.notify()
	return nil
}

func (s *RosterStore) Changes() (<-chan struct{}, func()) {
	return s.changes.subscribe()
}

func (s *RosterStore) Members() []*domain.User {
	return s.filter(func(*domain.User) bool { return true })
}

func (s *RosterStore) Interns() []*domain.User {
	return s.filter(func(u *domain.User) bool { return u.Role() == domain.RoleIntern })
}

func (s *RosterStore) Member(id string) (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.members {
		if m.ID == id {
			return copyUser(m), true
		}
	}
	return nil, false
}

func (s *RosterStore) filter(keep func(*domain.User) bool) []*domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.User, 0, len(s.members))
	for _, m := range s.members {
		if keep(m) {
			out = append(out, copyUser(m))
		}
	}
	return out
}

// Invite adds a member; the server mails them their credentials.
func (s *RosterStore) Invite(ctx context.Context, email string, attrs domain.ProfileAttributes) (*domain.User, error) {
	user, err := s.table.InviteProfile(ctx, email, attrs)
	if err != nil {
		slog.Error("failed to invite member", "email", email, "error", err)
		return nil, err
	}
	return user, nil
}

func (s *RosterStore) Remove(ctx context.Context, id string) error {
	if err := s.table.DeleteProfile(ctx, id); err != nil {
		slog.Error("failed to remove member", "id", id, "error", err)
		return err
	}
	return nil
}
