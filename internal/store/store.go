// Package store keeps local copies of the remote session, projects and team roster. Reads
// are served from memory; writes go straight to the remote store and the local copy is
// only refreshed by a later fetch, normally triggered by a change notification.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/mentorflow/mentorflow/internal/remote"
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrProjectNotFound  = errors.New("project not found")
)

type AuthAPI interface {
	GetSession(ctx context.Context) (*domain.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.User, error)
	SignUp(ctx context.Context, email, password string, attrs domain.ProfileAttributes) (*domain.User, bool, error)
	UpdateUser(ctx context.Context, attrs domain.UserAttributes) (*domain.User, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(listener remote.AuthListener) func()
}

type ProjectTable interface {
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	InsertProject(ctx context.Context, project domain.NewProject) (*domain.Project, error)
	UpdateProjectStatus(ctx context.Context, id string, status domain.ProjectStatus) error
	UpdateProjectChecklist(ctx context.Context, id string, checklist domain.Checklist) error
	UpdateProjectComments(ctx context.Context, id string, comments []domain.Comment) error
	DeleteProject(ctx context.Context, id string) error
}

type ProfileTable interface {
	ListProfiles(ctx context.Context, role domain.Role) ([]*domain.User, error)
	InviteProfile(ctx context.Context, email string, attrs domain.ProfileAttributes) (*domain.User, error)
	DeleteProfile(ctx context.Context, id string) error
}

type ChangeFeed interface {
	Subscribe(ctx context.Context, table string) (<-chan domain.ChangeEvent, error)
}

var (
	_ AuthAPI      = (*remote.Client)(nil)
	_ ProjectTable = (*remote.Client)(nil)
	_ ProfileTable = (*remote.Client)(nil)
	_ ChangeFeed   = (*remote.Client)(nil)
)

// Identity tells the stores who is acting. *AuthStore implements it.
type Identity interface {
	CurrentUser() *domain.User
}

// notifier fans a "cache replaced" signal out to any number of listeners. Signals are
// coalesced: a listener that is behind sees one pending signal, not one per replacement.
type notifier struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func (n *notifier) subscribe() (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs == nil {
		n.subs = make(map[chan struct{}]struct{})
	}
	ch := make(chan struct{}, 1)
	n.subs[ch] = struct{}{}

	return ch, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, ch)
	}
}

func (n *notifier) notify() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// watcher reloads a table on every change notification until stopped. Any event counts,
// whatever row or column it is about.
type watcher struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func watch(ctx context.Context, feed ChangeFeed, table string, reload func(ctx context.Context) error) (*watcher, error) {
	ctx, cancel := context.WithCancel(ctx)

	events, err := feed.Subscribe(ctx, table)
	if err != nil {
		cancel()
		return nil, err
	}

	w := &watcher{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		for event := range events {
			slog.Debug("change notification", "table", event.Table, "type", event.Type, "id", event.RecordID)
			// failures are logged by reload, the cache stays as it was
			_ = reload(ctx)
		}
	}()

	return w, nil
}

func (w *watcher) stop() {
	if w == nil {
		return
	}
	w.cancel()
	<-w.done
}
