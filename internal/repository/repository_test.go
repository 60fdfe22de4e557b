package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mentorflow/mentorflow/internal/config"
	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5

	return NewRepository(cfg, db), mock
}

var projectCols = []string{"id", "title", "description", "assigned_to_id", "created_by_id", "status", "deadline", "checklist", "comments", "created_at"}

func TestGetAllProjectsDecodesJSONColumns(t *testing.T) {
	repo, mock := newMockRepository(t)
	deadline := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	commented := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM projects ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(projectCols).
			AddRow("p2", "Case report", "", "i1", "s1", "review", deadline,
				[]byte(`[{"id":"a","text":"Draft","completed":true},{"id":"b","text":"Submit","completed":false}]`),
				[]byte(`[{"id":"c1","userId":"s1","text":"Looks good","timestamp":"2026-03-01T09:30:00Z"}]`),
				time.Now()).
			AddRow("p1", "ECG", "", "i1", "s1", "todo", deadline, []byte(`[]`), []byte(`[]`), time.Now()))

	projects, err := repo.GetAllProjects()
	require.NoError(t, err)
	require.Len(t, projects, 2)

	p := projects[0]
	assert.Equal(t, domain.StatusReview, p.Status)
	assert.Equal(t, domain.Checklist{
		{ID: "a", Text: "Draft", Completed: true},
		{ID: "b", Text: "Submit"},
	}, p.Checklist)
	require.Len(t, p.Comments, 1)
	assert.True(t, commented.Equal(p.Comments[0].Timestamp))

	assert.NotNil(t, projects[1].Checklist)
	assert.Empty(t, projects[1].Checklist)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProjectStartsEmpty(t *testing.T) {
	repo, mock := newMockRepository(t)
	created := time.Now()

	mock.ExpectQuery(`INSERT INTO projects`).
		WithArgs(sqlmock.AnyArg(), "ECG", "desc", "i1", "s1", "todo", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	project := &domain.Project{
		Title:        "ECG",
		Description:  "desc",
		AssignedToID: "i1",
		CreatedByID:  "s1",
		Status:       domain.StatusTodo,
		Checklist:    domain.Checklist{{ID: "ignored"}},
	}
	require.NoError(t, repo.CreateProject(project))

	assert.NotEmpty(t, project.ID)
	assert.Empty(t, project.Checklist)
	assert.NotNil(t, project.Comments)
	assert.Equal(t, created, project.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProjectChecklistWritesWholeArray(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE projects SET checklist = \$1::jsonb WHERE id = \$2`).
		WithArgs(`[]`, "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE projects SET checklist`).
		WithArgs(`[{"id":"a","text":"Draft","completed":false}]`, "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateProjectChecklist("p1", nil))
	require.NoError(t, repo.UpdateProjectChecklist("p1", domain.Checklist{{ID: "a", Text: "Draft"}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingProject(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE projects SET status`).
		WithArgs("done", "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM projects`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.UpdateProjectStatus("gone", domain.StatusDone), sql.ErrNoRows)
	assert.ErrorIs(t, repo.DeleteProject("gone"), sql.ErrNoRows)
}

var profileCols = []string{"id", "email", "password_hash", "name", "role", "avatar", "specialty", "course_year", "created_at", "version"}

func TestGetAllProfilesByRole(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`FROM profiles WHERE \(\$1 = '' OR role = \$1\) ORDER BY name`).
		WithArgs("intern").
		WillReturnRows(sqlmock.NewRows(profileCols).
			AddRow("i1", "luca@mentorflow.local", "hash", "Luca Bianchi", "intern", "", "", "5th Year", time.Now(), 1))

	users, err := repo.GetAllProfiles(domain.RoleIntern)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.Intern{CourseYear: "5th Year"}, users[0].Profile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileVersionConflict(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`UPDATE profiles`).
		WithArgs("Dr. Maria Rossi", "", "Neurology", "", "hash", "s1", 3).
		WillReturnRows(sqlmock.NewRows([]string{"email", "created_at", "version"}))

	user := &domain.User{ID: "s1", Name: "Dr. Maria Rossi", PasswordHash: "hash", Version: 3, Profile: domain.Supervisor{Specialty: "Neurology"}}
	err := repo.UpdateProfile(user)

	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateProfile(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs(sqlmock.AnyArg(), "maria@mentorflow.local", "hash", "Dr. Maria Rossi", "supervisor", "", "Cardiology", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "version"}).AddRow(time.Now(), 1))

	user := &domain.User{Email: "maria@mentorflow.local", PasswordHash: "hash", Name: "Dr. Maria Rossi", Profile: domain.Supervisor{Specialty: "Cardiology"}}
	require.NoError(t, repo.CreateProfile(user))

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, int32(1), user.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
