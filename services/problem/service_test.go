package problem

import (
	"context"
	"errors"
	"testing"

	"civicdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memProblems struct {
	problems map[string]*models.Problem
}

func (m *memProblems) Create(_ context.Context, p *models.Problem) error {
	p.ID = "p-1"
	cp := *p
	m.problems[p.ID] = &cp
	return nil
}

func (m *memProblems) GetByID(_ context.Context, id string) (*models.Problem, error) {
	p, ok := m.problems[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProblems) UpdateStatus(_ context.Context, id, status, dept string) (*models.Problem, error) {
	p, ok := m.problems[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Status = status
	if dept != "" {
		p.Department = dept
	}
	cp := *p
	return &cp, nil
}

type stubNotifier struct {
	payloads []models.DispatchPayload
	err      error
}

func (s *stubNotifier) Notify(_ context.Context, p models.DispatchPayload) error {
	s.payloads = append(s.payloads, p)
	return s.err
}

func newService() (*DefaultProblemService, *memProblems, *stubNotifier) {
	repo := &memProblems{problems: map[string]*models.Problem{}}
	n := &stubNotifier{}
	return &DefaultProblemService{Repo: repo, Notifier: n}, repo, n
}

func TestSubmitCreatesPendingProblem(t *testing.T) {
	svc, _, _ := newService()

	p, err := svc.Submit(context.Background(), "citizen-1", models.ProblemInput{Title: " Broken pipe ", Description: "leak"})
	require.NoError(t, err)
	assert.Equal(t, "Broken pipe", p.Title)
	assert.Equal(t, models.ProblemPending, p.Status)
	assert.Equal(t, "citizen-1", p.SubmittedBy)
}

func TestUpdateStatusNotifiesDepartment(t *testing.T) {
	svc, _, n := newService()
	_, err := svc.Submit(context.Background(), "c", models.ProblemInput{Title: "Broken pipe", Description: "leak"})
	require.NoError(t, err)

	p, err := svc.UpdateStatus(context.Background(), "p-1", models.ProblemStatusUpdate{
		Status:     models.ProblemAssigned,
		Department: "electricity & water board",
	})
	require.NoError(t, err)
	assert.Equal(t, "Electricity & Water Board", p.Department)

	require.Len(t, n.payloads, 1)
	got := n.payloads[0]
	assert.Equal(t, "Electricity & Water Board", got.Department)
	assert.Equal(t, "p-1", got.ProblemID)
	assert.Equal(t, models.AssignmentNotificationType, got.Type)
	assert.Contains(t, got.Message, "assigned")

	_, err = svc.UpdateStatus(context.Background(), "p-1", models.ProblemStatusUpdate{Status: models.ProblemResolved})
	require.NoError(t, err)
	require.Len(t, n.payloads, 2)
	assert.Equal(t, models.StatusUpdateNotificationType, n.payloads[1].Type)
}

func TestUpdateStatusSurvivesNotificationFailure(t *testing.T) {
	svc, _, n := newService()
	n.err = errors.New("queue unavailable")
	_, err := svc.Submit(context.Background(), "c", models.ProblemInput{Title: "t", Description: "d"})
	require.NoError(t, err)

	p, err := svc.UpdateStatus(context.Background(), "p-1", models.ProblemStatusUpdate{Status: models.ProblemAssigned, Department: "Social Welfare"})
	require.NoError(t, err)
	assert.Equal(t, models.ProblemAssigned, p.Status)
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, _, n := newService()

	_, err := svc.UpdateStatus(context.Background(), "p-1", models.ProblemStatusUpdate{Status: models.ProblemAssigned, Department: "Fire Brigade"})
	assert.ErrorIs(t, err, ErrUnknownDepartment)

	_, err = svc.UpdateStatus(context.Background(), "missing", models.ProblemStatusUpdate{Status: models.ProblemResolved})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, n.payloads)
}
