package notification

import (
	"context"
	"errors"
	"testing"

	"civicdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchFanOutCollectorsAndHead(t *testing.T) {
	f := newFixture(
		collector("c1"), collector("c2"), collector("c3"),
		models.User{ID: "c4", Role: models.RoleCollector, Status: models.StatusPending},
		models.User{ID: "h1", Role: models.RoleHead, Status: models.StatusApproved, DepartmentName: "Health Department"},
	)

	res, err := f.svc.Dispatch(context.Background(), DispatchRequest{
		Department: "Health Department",
		Message:    "Problem assigned",
		Data:       map[string]any{"problemId": "p-9"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.CreatedCount)

	roles := map[string]string{}
	for _, n := range f.notifications.docs {
		roles[n.Recipient.UserID] = n.ReceiverRole
		assert.Equal(t, models.PortalSender, n.Sender)
		assert.Equal(t, "Health Department", n.Department)
		assert.Equal(t, "p-9", n.RelatedProblem)
		assert.Equal(t, models.AssignmentNotificationType, n.Type)
	}
	assert.Equal(t, map[string]string{"c1": "collector", "c2": "collector", "c3": "collector", "h1": "head"}, roles)
}

func TestDispatchNothingToNotify(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Dispatch(context.Background(), DispatchRequest{Department: "Social Welfare", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.CreatedCount)
	assert.Empty(t, f.notifications.docs)
	require.Len(t, f.log.records, 1)
	assert.Equal(t, 0, f.log.records[0].CreatedCount)
}

func TestDispatchDepartmentHeadTakesPrecedence(t *testing.T) {
	f := newFixture(
		models.User{ID: "dept-head", Role: models.RoleHead, Status: models.StatusApproved},
		models.User{ID: "user-head", Role: models.RoleHead, Status: models.StatusApproved, DepartmentName: "Police Department"},
	)
	f.depts.depts["Police Department"] = "dept-head"

	res, err := f.svc.Dispatch(context.Background(), DispatchRequest{Department: "Police Department", Message: "m"})
	require.NoError(t, err)
	require.Equal(t, 1, res.CreatedCount)
	assert.Equal(t, "dept-head", f.notifications.docs[0].Recipient.UserID)
}

func TestDispatchFallsBackToHeadUser(t *testing.T) {
	f := newFixture(
		models.User{ID: "user-head", Role: models.RoleHead, Status: models.StatusApproved, DepartmentName: "Police Department"},
		models.User{ID: "pending-head", Role: models.RoleHead, Status: models.StatusPending, DepartmentName: "Transport Department"},
	)
	f.depts.depts["Police Department"] = ""

	res, err := f.svc.Dispatch(context.Background(), DispatchRequest{Department: "Police Department", Message: "m"})
	require.NoError(t, err)
	require.Equal(t, 1, res.CreatedCount)
	assert.Equal(t, "user-head", f.notifications.docs[0].Recipient.UserID)

	res, err = f.svc.Dispatch(context.Background(), DispatchRequest{Department: "Transport Department", Message: "m"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.CreatedCount)
}

func TestDispatchCanonicalisesDepartment(t *testing.T) {
	f := newFixture(collector("c1"))

	_, err := f.svc.Dispatch(context.Background(), DispatchRequest{Department: " police department ", Message: "m"})
	require.NoError(t, err)
	assert.Equal(t, "Police Department", f.notifications.docs[0].Department)
}

func TestDispatchValidation(t *testing.T) {
	f := newFixture(collector("c1"))

	_, err := f.svc.Dispatch(context.Background(), DispatchRequest{Department: "", Message: "m"})
	assert.ErrorIs(t, err, ErrInvalidDispatch)
	_, err = f.svc.Dispatch(context.Background(), DispatchRequest{Department: "Social Welfare", Message: "  "})
	assert.ErrorIs(t, err, ErrInvalidDispatch)
	assert.Empty(t, f.notifications.docs)
}

func TestDispatchInsertFailureLosesBatchAndIsRecorded(t *testing.T) {
	f := newFixture(collector("c1"), collector("c2"))
	f.notifications.insertErr = errors.New("connection reset")

	res, err := f.svc.Dispatch(context.Background(), DispatchRequest{Department: "Social Welfare", Message: "m"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Empty(t, f.notifications.docs)

	require.Len(t, f.log.records, 1)
	assert.Contains(t, f.log.records[0].Error, "connection reset")
}

func TestDispatchCollectorLookupFailure(t *testing.T) {
	f := newFixture()
	f.users.err = errors.New("timeout")

	_, err := f.svc.Dispatch(context.Background(), DispatchRequest{Department: "Social Welfare", Message: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collectors")
}
