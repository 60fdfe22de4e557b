package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProjectStatus(t *testing.T) {
	t.Run("writes the status and notifies", func(t *testing.T) {
		e := newTestEnv(t)
		e.mock.ExpectQuery(`FROM projects WHERE id = \$1`).WillReturnRows(projectRow("[]"))
		e.mock.ExpectExec(`UPDATE projects SET status`).
			WithArgs("review", projectID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		_, resp := e.do(t, http.MethodPatch, "/projects/"+projectID+"/status", `{"status":"review"}`, e.sessionCookie(t, intern))

		require.True(t, resp.Success, resp.Message)
		assert.Equal(t, "status updated", resp.Message)
		require.Len(t, e.broker.published, 1)
		assert.Equal(t, domain.TableProjects, e.broker.published[0].Table)
		assert.Equal(t, domain.ChangeUpdate, e.broker.published[0].Type)
		assert.Equal(t, projectID, e.broker.published[0].RecordID)
		assert.NoError(t, e.mock.ExpectationsWereMet())
	})

	t.Run("unknown status", func(t *testing.T) {
		e := newTestEnv(t)
		e.mock.ExpectQuery(`FROM projects WHERE id = \$1`).WillReturnRows(projectRow("[]"))

		_, resp := e.do(t, http.MethodPatch, "/projects/"+projectID+"/status", `{"status":"archived"}`, e.sessionCookie(t, intern))

		assert.False(t, resp.Success)
		assert.Empty(t, e.broker.published)
		assert.NoError(t, e.mock.ExpectationsWereMet())
	})

	t.Run("project deleted meanwhile", func(t *testing.T) {
		e := newTestEnv(t)
		e.mock.ExpectQuery(`FROM projects WHERE id = \$1`).WillReturnRows(projectRow("[]"))
		e.mock.ExpectExec(`UPDATE projects SET status`).WillReturnResult(sqlmock.NewResult(0, 0))

		_, resp := e.do(t, http.MethodPatch, "/projects/"+projectID+"/status", `{"status":"done"}`, e.sessionCookie(t, supervisor))

		assert.False(t, resp.Success)
		assert.Equal(t, "project not found", resp.Message)
		assert.Empty(t, e.broker.published)
	})
}

func TestReplaceProjectComments(t *testing.T) {
	t.Run("writes the thread in order", func(t *testing.T) {
		e := newTestEnv(t)
		e.mock.ExpectQuery(`FROM projects WHERE id = \$1`).WillReturnRows(projectRow("[]"))
		e.mock.ExpectExec(`UPDATE projects SET comments`).
			WithArgs(sqlmock.AnyArg(), projectID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		body := `{"comments":[` +
			`{"id":"c1","userId":"` + supervisorID + `","text":"Start with the ECG","timestamp":"2026-10-01T09:00:00Z"},` +
			`{"id":"c2","userId":"` + internID + `","text":"Done","timestamp":"2026-10-02T09:00:00Z"}]}`
		_, resp := e.do(t, http.MethodPut, "/projects/"+projectID+"/comments", body, e.sessionCookie(t, intern))

		require.True(t, resp.Success, resp.Message)
		assert.Equal(t, "comments updated", resp.Message)
		require.Len(t, e.broker.published, 1)
		assert.Equal(t, domain.ChangeUpdate, e.broker.published[0].Type)
		assert.NoError(t, e.mock.ExpectationsWereMet())
	})

	t.Run("empty text is rejected", func(t *testing.T) {
		e := newTestEnv(t)
		e.mock.ExpectQuery(`FROM projects WHERE id = \$1`).WillReturnRows(projectRow("[]"))

		body := `{"comments":[{"id":"c1","userId":"` + internID + `","text":"","timestamp":"2026-10-01T09:00:00Z"}]}`
		_, resp := e.do(t, http.MethodPut, "/projects/"+projectID+"/comments", body, e.sessionCookie(t, intern))

		assert.False(t, resp.Success)
		assert.Equal(t, "Text is a required field", resp.Message)
		assert.Empty(t, e.broker.published)
		assert.NoError(t, e.mock.ExpectationsWereMet())
	})
}

func TestDeleteProject(t *testing.T) {
	t.Run("supervisor deletes", func(t *testing.T) {
		e := newTestEnv(t)
		e.mock.ExpectQuery(`FROM projects WHERE id = \$1`).WillReturnRows(projectRow("[]"))
		e.mock.ExpectExec(`DELETE FROM projects`).
			WithArgs(projectID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		_, resp := e.do(t, http.MethodDelete, "/projects/"+projectID, "", e.sessionCookie(t, supervisor))

		require.True(t, resp.Success, resp.Message)
		assert.Equal(t, "project deleted", resp.Message)
		require.Len(t, e.broker.published, 1)
		assert.Equal(t, domain.TableProjects, e.broker.published[0].Table)
		assert.Equal(t, domain.ChangeDelete, e.broker.published[0].Type)
		assert.NoError(t, e.mock.ExpectationsWereMet())
	})

	t.Run("interns cannot delete", func(t *testing.T) {
		e := newTestEnv(t)
		e.mock.ExpectQuery(`FROM projects WHERE id = \$1`).WillReturnRows(projectRow("[]"))

		_, resp := e.do(t, http.MethodDelete, "/projects/"+projectID, "", e.sessionCookie(t, intern))

		assert.False(t, resp.Success)
		assert.Equal(t, "permission denied", resp.Message)
		assert.Empty(t, e.broker.published)
		assert.NoError(t, e.mock.ExpectationsWereMet())
	})

	t.Run("already gone", func(t *testing.T) {
		e := newTestEnv(t)
		e.mock.ExpectQuery(`FROM projects WHERE id = \$1`).WillReturnRows(projectRow("[]"))
		e.mock.ExpectExec(`DELETE FROM projects`).WillReturnResult(sqlmock.NewResult(0, 0))

		_, resp := e.do(t, http.MethodDelete, "/projects/"+projectID, "", e.sessionCookie(t, supervisor))

		assert.False(t, resp.Success)
		assert.Equal(t, "project not found", resp.Message)
		assert.Empty(t, e.broker.published)
	})
}

func TestGetAllProfilesRoleFilter(t *testing.T) {
	t.Run("filters by role", func(t *testing.T) {
		e := newTestEnv(t)
		e.mock.ExpectQuery(`FROM profiles WHERE \(\$1 = '' OR role = \$1\)`).
			WithArgs("intern").
			WillReturnRows(profileRow(intern, ""))

		_, resp := e.do(t, http.MethodGet, "/profiles?role=intern", "", e.sessionCookie(t, supervisor))

		require.True(t, resp.Success, resp.Message)
		users := resp.Data.([]any)
		require.Len(t, users, 1)
		assert.Equal(t, "intern", users[0].(map[string]any)["role"])
		assert.NoError(t, e.mock.ExpectationsWereMet())
	})

	t.Run("unknown role", func(t *testing.T) {
		e := newTestEnv(t)

		_, resp := e.do(t, http.MethodGet, "/profiles?role=admin", "", e.sessionCookie(t, supervisor))

		assert.False(t, resp.Success)
		assert.Equal(t, "unknown role", resp.Message)
		assert.NoError(t, e.mock.ExpectationsWereMet())
	})
}
