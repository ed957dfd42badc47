package handler_test

import (
	"net/http"
	"testing"
	"time"

	"internhub/internal/dashboard"
	"internhub/internal/handler"
	"internhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboards(t *testing.T) {
	a := newAPI(t)
	employer, internshipID, studentID, student := enrolledStudent(t, a)

	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	resp := a.do("POST", "/tasks", employer, handler.TaskRequest{
		InternshipID: internshipID,
		AssignedTo:   studentID.String(),
		Title:        "Read the handbook",
		Priority:     "high",
		DueDate:      &due,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = a.do("GET", "/dashboard/student", student, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	studentView := decode[dashboard.StudentDashboard](t, resp)
	assert.Equal(t, int64(1), studentView.Stats.TotalApplications)
	assert.Equal(t, int64(1), studentView.Stats.ActiveInternships)
	assert.Equal(t, int64(1), studentView.Stats.PendingTasks)
	require.Len(t, studentView.UpcomingTasks, 1)
	assert.Equal(t, "Backend intern", studentView.UpcomingTasks[0].InternshipTitle)
	assert.True(t, studentView.UpcomingTasks[0].Overdue)
	assert.Empty(t, studentView.Degraded)

	resp = a.do("GET", "/dashboard/employer", employer, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	employerView := decode[dashboard.EmployerDashboard](t, resp)
	assert.Equal(t, int64(1), employerView.Stats.TotalInternships)
	assert.Equal(t, int64(1), employerView.Stats.ActiveInterns)
	assert.Equal(t, int64(0), employerView.Stats.PendingApplications)
	require.Len(t, employerView.RecentInternships, 1)
	assert.Equal(t, int64(1), employerView.RecentInternships[0].ApplicationCount)
}

func TestDashboards_WrongRole(t *testing.T) {
	a := newAPI(t)
	_, employer := a.user(t, model.RoleEmployer)
	_, student := a.user(t, model.RoleStudent)

	assert.Equal(t, http.StatusForbidden, a.do("GET", "/dashboard/employer", student, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do("GET", "/dashboard/student", employer, nil).Code)
}

func TestMe(t *testing.T) {
	a := newAPI(t)
	id, token := a.user(t, model.RoleStudent)

	resp := a.do("GET", "/me", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	me := decode[handler.ProfileResponse](t, resp)
	assert.Equal(t, id.String(), me.ID)
	assert.Equal(t, "student", me.Role)
}
