package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/iksnae/complaint-desk/internal"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_Query(t *testing.T) {
	tests := []struct {
		name      string
		filter    DashboardFilter
		wantQuery map[string]string
	}{
		{"no filters", DashboardFilter{}, map[string]string{}},
		{"all values omitted", DashboardFilter{Date: "2024-03-02", BranchID: "all", Category: "all"}, map[string]string{"date": "2024-03-02"}},
		{"every filter", DashboardFilter{Date: "2024-03-02", BranchID: "1", Category: "2"}, map[string]string{"date": "2024-03-02", "branch_id": "1", "category": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fake := newTestClient(t, "super-token")
			d, err := c.Dashboard(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, Dashboard{TotalComplaints: 3, OpenComplaints: 1, ResolvedComplaints: 1, PendingComplaints: 1}, *d)

			q := fake.LastRequest().Query
			assert.Len(t, q, len(tt.wantQuery))
			for k, v := range tt.wantQuery {
				assert.Equal(t, v, q.Get(k), k)
			}
		})
	}
}

func TestDashboard_RejectsBadDate(t *testing.T) {
	c, fake := newTestClient(t, "super-token")
	_, err := c.Dashboard(context.Background(), DashboardFilter{Date: "03/02/2024"})

	var vErr *internal.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, 0, fake.RequestCount("/super_admin/dashboard"))
}

func TestDashboard_ForbiddenForBranchAdmin(t *testing.T) {
	c, _ := newTestClient(t, "branch-token")
	_, err := c.Dashboard(context.Background(), DashboardFilter{})

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestFilterChoices(t *testing.T) {
	c, _ := newTestClient(t, "super-token")
	ctx := context.Background()

	branches, err := c.Branches(ctx)
	require.NoError(t, err)
	assert.Len(t, branches, 2)

	cats, err := c.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Service", cats[0].Name)
	assert.Equal(t, "1", cats[0].ID.String())
}

func TestCategoryID_KeepsBackendText(t *testing.T) {
	c, fake := newTestClient(t, "super-token")
	fake.Categories = []map[string]interface{}{
		{"id": 1000000, "name": "Large"},
		{"id": "svc-7", "name": "Keyed"},
	}

	cats, err := c.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, CategoryID("1000000"), cats[0].ID)
	assert.Equal(t, CategoryID("svc-7"), cats[1].ID)

	out, err := json.Marshal(cats)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1000000,"name":"Large"},{"id":"svc-7","name":"Keyed"}]`, string(out))
}

func TestBranchLifecycle(t *testing.T) {
	c, fake := newTestClient(t, "super-token")
	ctx := context.Background()

	admins, err := c.UnassignedAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	spare := admins[0].ID

	created, err := c.CreateBranch(ctx, BranchInput{Name: "North", Address: "3 North Rd", AdminID: &spare})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	require.NotNil(t, created.AdminID)
	assert.Equal(t, spare, *created.AdminID)

	updated, err := c.UpdateBranch(ctx, created.ID, BranchInput{Name: "North Side", Address: "3 North Rd"})
	require.NoError(t, err)
	assert.Equal(t, "North Side", updated.Name)
	assert.Nil(t, updated.AdminID)
	assert.JSONEq(t, `{"name":"North Side","address":"3 North Rd","admin_id":null}`, string(fake.LastRequest().Body))
	assert.Equal(t, http.MethodPut, fake.LastRequest().Method)

	require.NoError(t, c.DeleteBranch(ctx, created.ID))
	branches, err := c.ListBranches(ctx)
	require.NoError(t, err)
	assert.Len(t, branches, 2)

	err = c.DeleteBranch(ctx, created.ID)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestCreateBranch_ValidatesBeforeRequest(t *testing.T) {
	c, fake := newTestClient(t, "super-token")
	_, err := c.CreateBranch(context.Background(), BranchInput{Name: "  ", Address: "x"})

	var vErr *internal.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "branch", vErr.Form)
	assert.Equal(t, 0, fake.RequestCount("/super_admin/branches"))
}

func TestAdminLifecycle(t *testing.T) {
	c, fake := newTestClient(t, "super-token")
	ctx := context.Background()

	branches, err := c.UnassignedBranches(ctx)
	require.NoError(t, err)
	require.Len(t, branches, 1)
	uptown := branches[0].ID

	created, err := c.CreateAdmin(ctx, AdminInput{
		Name:        "Nora",
		Email:       "nora@example.com",
		Password:    "hunter2",
		Permissions: Permissions{FullAccess: true},
		IsActive:    true,
		BranchID:    &uptown,
	})
	require.NoError(t, err)
	assert.Equal(t, "Full Access", created.Permissions.Label())

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(fake.LastRequest().Body, &sent))
	assert.Equal(t, "hunter2", sent["password"])
	assert.Equal(t, map[string]interface{}{"viewOnly": false, "fullAccess": true}, sent["permissions"])

	_, err = c.UpdateAdmin(ctx, created.ID, AdminInput{
		Name:        "Nora",
		Email:       "nora@example.com",
		Permissions: Permissions{ViewOnly: true},
	})
	require.NoError(t, err)
	sent = nil
	require.NoError(t, json.Unmarshal(fake.LastRequest().Body, &sent))
	_, hasPassword := sent["password"]
	assert.False(t, hasPassword, "update without password should not send one")
	assert.Equal(t, false, sent["is_active"])

	msg, err := c.ResetAdminPassword(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Password reset link sent", msg)
	assert.Equal(t, []int{created.ID}, fake.ResetSent)

	require.NoError(t, c.DeleteAdmin(ctx, created.ID))
	admins, err := c.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 2)
}

func TestComplaints(t *testing.T) {
	c, fake := newTestClient(t, "branch-token")
	ctx := context.Background()

	all, err := c.ListComplaints(ctx, ComplaintFilter{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Empty(t, fake.LastRequest().Query.Get("status"))

	pending, err := c.ListComplaints(ctx, ComplaintFilter{Status: StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Long queue", pending[0].Subject)

	found, err := c.ListComplaints(ctx, ComplaintFilter{Search: "atm", Date: "2024-03-01"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "2024-03-01", fake.LastRequest().Query.Get("date"))

	one, err := c.GetComplaint(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", one.UserEmail)

	updated, err := c.UpdateComplaintStatus(ctx, 1, StatusUpdate{Status: StatusResolved, AdminNotes: "Card returned"})
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, updated.Status)
	assert.Equal(t, "Card returned", updated.AdminNotes)
	assert.JSONEq(t, `{"status":"resolved","admin_notes":"Card returned"}`, string(fake.LastRequest().Body))
}

func TestComplaints_InvalidInput(t *testing.T) {
	c, fake := newTestClient(t, "branch-token")
	ctx := context.Background()

	_, err := c.ListComplaints(ctx, ComplaintFilter{Status: "closed"})
	var vErr *internal.ValidationError
	require.True(t, errors.As(err, &vErr))

	_, err = c.UpdateComplaintStatus(ctx, 1, StatusUpdate{Status: "closed"})
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "status", vErr.Form)

	assert.Equal(t, 0, fake.RequestCount("/normal_admin/complaints"))
	assert.Equal(t, 0, fake.RequestCount("/normal_admin/complaints/1/status"))
}
