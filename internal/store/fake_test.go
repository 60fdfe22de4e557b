package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/mentorflow/mentorflow/internal/remote"
)

var errUnavailable = errors.New("remote unavailable")

// fakeRemote behaves like the API for a single signed-in user: whole-array writes, newest
// projects first, a change event after every write.
type fakeRemote struct {
	mu        sync.Mutex
	projects  []*domain.Project
	profiles  []*domain.User
	session   *domain.User
	password  string
	failReads bool
	failWrite bool
	seq       int
	clock     time.Time

	subs      map[string][]chan domain.ChangeEvent
	listeners map[int]remote.AuthListener
	nextID    int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		password:  "secret",
		clock:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		subs:      make(map[string][]chan domain.ChangeEvent),
		listeners: make(map[int]remote.AuthListener),
	}
}

func (f *fakeRemote) publish(table string, t domain.ChangeType, id string) {
	for _, ch := range f.subs[table] {
		select {
		case ch <- domain.ChangeEvent{Table: table, Type: t, RecordID: id}:
		default:
		}
	}
}

func (f *fakeRemote) Subscribe(ctx context.Context, table string) (<-chan domain.ChangeEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	in := make(chan domain.ChangeEvent, 16)
	f.subs[table] = append(f.subs[table], in)

	out := make(chan domain.ChangeEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-in:
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (f *fakeRemote) ListProjects(context.Context) ([]*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failReads {
		return nil, errUnavailable
	}
	out := make([]*domain.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (f *fakeRemote) InsertProject(_ context.Context, np domain.NewProject) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrite {
		return nil, errUnavailable
	}
	f.seq++
	f.clock = f.clock.Add(time.Minute)
	p := &domain.Project{
		ID:           fmt.Sprintf("p%d", f.seq),
		Title:        np.Title,
		Description:  np.Description,
		AssignedToID: np.AssignedToID,
		CreatedByID:  f.session.ID,
		Status:       np.Status,
		Deadline:     np.Deadline,
		Checklist:    domain.Checklist{},
		Comments:     []domain.Comment{},
		CreatedAt:    f.clock,
	}
	f.projects = append([]*domain.Project{p}, f.projects...)
	f.publish(domain.TableProjects, domain.ChangeInsert, p.ID)
	return p.Clone(), nil
}

func (f *fakeRemote) update(id string, apply func(p *domain.Project)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrite {
		return errUnavailable
	}
	for _, p := range f.projects {
		if p.ID == id {
			apply(p)
			f.publish(domain.TableProjects, domain.ChangeUpdate, id)
			return nil
		}
	}
	return &remote.APIError{Status: 200, Message: "project not found"}
}

func (f *fakeRemote) UpdateProjectStatus(_ context.Context, id string, status domain.ProjectStatus) error {
	return f.update(id, func(p *domain.Project) { p.Status = status })
}

func (f *fakeRemote) UpdateProjectChecklist(_ context.Context, id string, checklist domain.Checklist) error {
	return f.update(id, func(p *domain.Project) { p.Checklist = append(domain.Checklist{}, checklist...) })
}

func (f *fakeRemote) UpdateProjectComments(_ context.Context, id string, comments []domain.Comment) error {
	return f.update(id, func(p *domain.Project) { p.Comments = append([]domain.Comment{}, comments...) })
}

func (f *fakeRemote) DeleteProject(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrite {
		return errUnavailable
	}
	for i, p := range f.projects {
		if p.ID == id {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			f.publish(domain.TableProjects, domain.ChangeDelete, id)
			return nil
		}
	}
	return &remote.APIError{Status: 200, Message: "project not found"}
}

func (f *fakeRemote) ListProfiles(_ context.Context, role domain.Role) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failReads {
		return nil, errUnavailable
	}
	out := make([]*domain.User, 0, len(f.profiles))
	for _, u := range f.profiles {
		if role == "" || u.Role() == role {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeRemote) InviteProfile(_ context.Context, email string, attrs domain.ProfileAttributes) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	u := &domain.User{ID: fmt.Sprintf("u%d", f.seq), Email: email, Name: attrs.Name, Avatar: attrs.Avatar, Profile: attrs.Profile}
	f.profiles = append(f.profiles, u)
	f.publish(domain.TableProfiles, domain.ChangeInsert, u.ID)
	c := *u
	return &c, nil
}

func (f *fakeRemote) DeleteProfile(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, u := range f.profiles {
		if u.ID == id {
			f.profiles = append(f.profiles[:i], f.profiles[i+1:]...)
			f.publish(domain.TableProfiles, domain.ChangeDelete, id)
			return nil
		}
	}
	return &remote.APIError{Status: 200, Message: "profile not found"}
}

func (f *fakeRemote) GetSession(context.Context) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failReads {
		return nil, errUnavailable
	}
	if f.session == nil {
		return nil, nil
	}
	c := *f.session
	return &c, nil
}

func (f *fakeRemote) SignInWithPassword(_ context.Context, email, password string) (*domain.User, error) {
	f.mu.Lock()
	var user *domain.User
	for _, u := range f.profiles {
		if u.Email == email && password == f.password {
			c := *u
			user = &c
		}
	}
	if user == nil {
		f.mu.Unlock()
		return nil, &remote.APIError{Status: 200, Message: "invalid credentials"}
	}
	f.session = user
	f.mu.Unlock()

	f.emit(domain.AuthSignedIn, user)
	return user, nil
}

func (f *fakeRemote) SignUp(_ context.Context, email, _ string, attrs domain.ProfileAttributes) (*domain.User, bool, error) {
	f.mu.Lock()
	f.seq++
	u := &domain.User{ID: fmt.Sprintf("u%d", f.seq), Email: email, Name: attrs.Name, Profile: attrs.Profile}
	f.profiles = append(f.profiles, u)
	f.mu.Unlock()

	return u, false, nil
}

func (f *fakeRemote) UpdateUser(_ context.Context, attrs domain.UserAttributes) (*domain.User, error) {
	f.mu.Lock()
	if f.failWrite {
		f.mu.Unlock()
		return nil, errUnavailable
	}
	merged := f.session.Merge(attrs)
	f.session = &merged
	f.mu.Unlock()

	f.emit(domain.AuthUserUpdated, &merged)
	return &merged, nil
}

func (f *fakeRemote) SignOut(context.Context) error {
	f.mu.Lock()
	if f.failWrite {
		f.mu.Unlock()
		return errUnavailable
	}
	f.session = nil
	f.mu.Unlock()

	f.emit(domain.AuthSignedOut, nil)
	return nil
}

func (f *fakeRemote) OnAuthStateChange(listener remote.AuthListener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.listeners[id] = listener
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

func (f *fakeRemote) emit(event domain.AuthEvent, user *domain.User) {
	f.mu.Lock()
	listeners := make([]remote.AuthListener, 0, len(f.listeners))
	for _, l := range f.listeners {
		listeners = append(listeners, l)
	}
	f.mu.Unlock()

	for _, l := range listeners {
		l(event, user)
	}
}

type staticIdentity struct {
	user *domain.User
}

func (s staticIdentity) CurrentUser() *domain.User {
	return s.user
}
