package store

import (
	"context"
	"testing"

	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthStore(t *testing.T) (*AuthStore, *fakeRemote) {
	t.Helper()

	f := newFakeRemote()
	f.profiles = []*domain.User{supervisor, intern}
	s := NewAuthStore(f)
	t.Cleanup(s.Stop)
	return s, f
}

func TestAuthStoreStartLoadsSession(t *testing.T) {
	s, f := newAuthStore(t)
	f.session = intern

	assert.True(t, s.Loading())
	s.Start(context.Background())

	assert.False(t, s.Loading())
	require.True(t, s.IsAuthenticated())
	assert.Equal(t, intern.ID, s.User().ID)
}

func TestAuthStoreStartWithFailedSessionQuery(t *testing.T) {
	s, f := newAuthStore(t)
	f.failReads = true

	s.Start(context.Background())

	assert.False(t, s.Loading())
	assert.False(t, s.IsAuthenticated())
}

// sessionThenSignOut answers the session query with a user but signs out before the
// answer reaches the store.
type sessionThenSignOut struct {
	*fakeRemote
}

func (f sessionThenSignOut) GetSession(ctx context.Context) (*domain.User, error) {
	user, err := f.fakeRemote.GetSession(ctx)
	f.emit(domain.AuthSignedOut, nil)
	return user, err
}

func TestAuthStoreStartKeepsSignOutThatRacedSession(t *testing.T) {
	f := newFakeRemote()
	f.session = intern
	s := NewAuthStore(sessionThenSignOut{f})
	t.Cleanup(s.Stop)

	s.Start(context.Background())

	assert.False(t, s.Loading())
	assert.False(t, s.IsAuthenticated())
}

func TestSignInPopulatesUserThroughNotification(t *testing.T) {
	s, _ := newAuthStore(t)
	ctx := context.Background()
	s.Start(ctx)

	err := s.SignIn(ctx, supervisor.Email, "wrong")
	assert.Error(t, err)
	assert.False(t, s.IsAuthenticated())

	require.NoError(t, s.SignIn(ctx, supervisor.Email, "secret"))
	require.True(t, s.IsAuthenticated())
	assert.True(t, s.User().IsSupervisor())
}

func TestSignUpDoesNotSignIn(t *testing.T) {
	s, _ := newAuthStore(t)
	ctx := context.Background()
	s.Start(ctx)

	signedIn, err := s.SignUp(ctx, "giulia@mentorflow.local", "secret", domain.ProfileAttributes{
		Name:    "Giulia Verdi",
		Profile: domain.Intern{CourseYear: "6th Year"},
	})

	require.NoError(t, err)
	assert.False(t, signedIn)
	assert.False(t, s.IsAuthenticated())

	require.NoError(t, s.SignIn(ctx, "giulia@mentorflow.local", "secret"))
	assert.Equal(t, "6th Year", s.User().CourseYear())
}

func TestUpdateUserMergesLocally(t *testing.T) {
	s, _ := newAuthStore(t)
	ctx := context.Background()
	s.Start(ctx)

	name := "Dr. Maria Rossi-Bianchi"
	assert.ErrorIs(t, s.UpdateUser(ctx, domain.UserAttributes{Name: &name}), ErrNotAuthenticated)

	require.NoError(t, s.SignIn(ctx, supervisor.Email, "secret"))

	specialty := "Neurology"
	require.NoError(t, s.UpdateUser(ctx, domain.UserAttributes{Name: &name, Specialty: &specialty}))

	user := s.User()
	assert.Equal(t, name, user.Name)
	assert.Equal(t, "Neurology", user.Specialty())
	assert.Equal(t, supervisor.Email, user.Email)
}

func TestUpdateUserFailureKeepsUser(t *testing.T) {
	s, f := newAuthStore(t)
	ctx := context.Background()
	s.Start(ctx)
	require.NoError(t, s.SignIn(ctx, supervisor.Email, "secret"))

	f.failWrite = true
	name := "someone else"
	assert.Error(t, s.UpdateUser(ctx, domain.UserAttributes{Name: &name}))

	assert.Equal(t, supervisor.Name, s.User().Name)
}

func TestLogoutClearsUserEvenOnFailure(t *testing.T) {
	s, f := newAuthStore(t)
	ctx := context.Background()
	s.Start(ctx)
	require.NoError(t, s.SignIn(ctx, supervisor.Email, "secret"))

	f.failWrite = true
	err := s.Logout(ctx)

	assert.ErrorIs(t, err, errUnavailable)
	assert.False(t, s.IsAuthenticated())
}

func TestStopUnsubscribes(t *testing.T) {
	s, f := newAuthStore(t)
	ctx := context.Background()
	s.Start(ctx)
	s.Stop()

	_, err := f.SignInWithPassword(ctx, supervisor.Email, "secret")
	require.NoError(t, err)

	assert.False(t, s.IsAuthenticated())
}

func TestUserIsACopy(t *testing.T) {
	s, f := newAuthStore(t)
	f.session = intern
	s.Start(context.Background())

	u := s.User()
	u.Name = "changed"

	assert.Equal(t, intern.Name, s.User().Name)
}
