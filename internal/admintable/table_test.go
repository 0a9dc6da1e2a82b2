package admintable

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/swifttax/swifttax-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeUserAPI emulates the server contracts: ids are assigned and unique,
// create zeroes the counters and stamps createdAt, update merges patches.
type fakeUserAPI struct {
	mu    sync.Mutex
	users []model.User

	bulkErr   error
	statusErr error

	bulkCalls int
}

func (f *fakeUserAPI) List(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeUserAPI) Create(ctx context.Context, create model.UserCreate) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := int(time.Now().UnixNano() % 1_000_000_000)
	for f.exists(id) {
		id++
	}

	user := model.User{
		ID:        id,
		FirstName: create.FirstName,
		LastName:  create.LastName,
		Email:     create.Email,
		Role:      create.Role,
		Status:    create.Status,
		PANNumber: create.PANNumber,
		Phone:     create.Phone,
		CreatedAt: time.Now(),
	}
	f.users = append(f.users, user)
	return &user, nil
}

func (f *fakeUserAPI) Update(ctx context.Context, id int, update model.UserUpdate) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.users {
		if f.users[i].ID != id {
			continue
		}
		u := &f.users[i]
		if update.FirstName != nil {
			u.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			u.LastName = *update.LastName
		}
		if update.Email != nil {
			u.Email = *update.Email
		}
		if update.Role != nil {
			u.Role = *update.Role
		}
		if update.Status != nil {
			u.Status = *update.Status
		}
		if update.PANNumber != nil {
			u.PANNumber = update.PANNumber
		}
		if update.Phone != nil {
			u.Phone = update.Phone
		}
		out := *u
		return &out, nil
	}
	return nil, errors.New("user not found")
}

func (f *fakeUserAPI) UpdateStatus(ctx context.Context, id int, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return f.statusErr
	}
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Status = status
			return nil
		}
	}
	return errors.New("user not found")
}

func (f *fakeUserAPI) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return errors.New("user not found")
}

func (f *fakeUserAPI) Bulk(ctx context.Context, action string, ids []int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCalls++
	if f.bulkErr != nil {
		return 0, f.bulkErr
	}

	affected := 0
	for _, id := range ids {
		for i := range f.users {
			if f.users[i].ID != id {
				continue
			}
			affected++
			switch action {
			case model.BulkActivate:
				f.users[i].Status = model.StatusActive
			case model.BulkDeactivate:
				f.users[i].Status = model.StatusInactive
			case model.BulkDelete:
				f.users = append(f.users[:i], f.users[i+1:]...)
			}
			break
		}
	}
	return affected, nil
}

func (f *fakeUserAPI) exists(id int) bool {
	for _, u := range f.users {
		if u.ID == id {
			return true
		}
	}
	return false
}

type recordingToasts struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (r *recordingToasts) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *recordingToasts) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func seedUsers() []model.User {
	return []model.User{
		{ID: 1, FirstName: "Asha", LastName: "Patel", Email: "asha@swifttax.in", Role: model.RoleAdmin, Status: model.StatusActive},
		{ID: 2, FirstName: "Rahul", LastName: "Verma", Email: "rahul@swifttax.in", Role: model.RoleUser, Status: model.StatusActive},
		{ID: 3, FirstName: "Meera", LastName: "Iyer", Email: "meera@swifttax.in", Role: model.RoleAccountant, Status: model.StatusInactive},
		{ID: 4, FirstName: "Vikram", LastName: "Rao", Email: "vikram@swifttax.in", Role: model.RoleUser, Status: model.StatusSuspended},
	}
}

func newTestTable(t *testing.T) (*Table, *fakeUserAPI, *recordingToasts) {
	t.Helper()
	api := &fakeUserAPI{users: seedUsers()}
	toasts := &recordingToasts{}
	table := New(api, toasts, zap.NewNop())
	require.NoError(t, table.Load(context.Background()))
	return table, api, toasts
}

func visibleIDs(users []model.User) []int {
	ids := make([]int, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestFilterIsPureAndOrderPreserving(t *testing.T) {
	users := seedUsers()

	tests := []struct {
		name   string
		search string
		role   string
		status string
		want   []int
	}{
		{"no filters match all", "", "", "", []int{1, 2, 3, 4}},
		{"search matches first name case-insensitively", "ASHA", "", "", []int{1}},
		{"search matches last name", "rao", "", "", []int{4}},
		{"search matches email", "swifttax.in", "", "", []int{1, 2, 3, 4}},
		{"role filter is exact", "", model.RoleUser, "", []int{2, 4}},
		{"status filter is exact", "", "", model.StatusActive, []int{1, 2}},
		{"filters conjoin", "swifttax", model.RoleUser, model.StatusActive, []int{2}},
		{"no match", "zz", "", "", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(users, tt.search, tt.role, tt.status)
			assert.Equal(t, tt.want, visibleIDs(got))

			// identical inputs, identical outputs
			again := Filter(users, tt.search, tt.role, tt.status)
			assert.Equal(t, got, again)
		})
	}

	// the input list is never mutated
	assert.Equal(t, seedUsers(), users)
}

func TestBulkActionEmptySelectionIsNoOp(t *testing.T) {
	table, api, toasts := newTestTable(t)

	before := table.Users()
	require.NoError(t, table.BulkAction(context.Background(), model.BulkDelete))

	assert.Equal(t, before, table.Users())
	assert.Zero(t, api.bulkCalls, "empty selection must not hit the network")
	assert.Equal(t, []string{"No users selected"}, toasts.errors)
}

func TestBulkDeleteRemovesSelectionAndClearsIt(t *testing.T) {
	table, _, toasts := newTestTable(t)

	table.ToggleSelect(2)
	table.ToggleSelect(4)
	require.NoError(t, table.BulkAction(context.Background(), model.BulkDelete))

	assert.Equal(t, []int{1, 3}, visibleIDs(table.Users()))
	assert.Empty(t, table.Selected())
	assert.Equal(t, []string{"2 users deleted"}, toasts.successes)
}

func TestBulkFailureStillClearsSelection(t *testing.T) {
	table, api, toasts := newTestTable(t)
	api.bulkErr = errors.New("database unavailable")

	table.ToggleSelect(1)
	table.ToggleSelect(2)
	err := table.BulkAction(context.Background(), model.BulkActivate)

	require.Error(t, err)
	assert.Empty(t, table.Selected(), "selection is not restored on failure")
	assert.Equal(t, []int{1, 2, 3, 4}, visibleIDs(table.Users()))
	require.Len(t, toasts.errors, 1)
	assert.Contains(t, toasts.errors[0], "activate")
}

func TestCreateAppendsServerRecordWithZeroedCounters(t *testing.T) {
	table, _, toasts := newTestTable(t)

	form := Form{FirstName: "A", LastName: "B", Email: "a@b.com", Role: model.RoleUser, Status: model.StatusActive}
	require.NoError(t, table.Create(context.Background(), form))

	users := table.Users()
	require.Len(t, users, 5)
	created := users[4]

	for _, u := range seedUsers() {
		assert.NotEqual(t, u.ID, created.ID)
	}
	assert.Zero(t, created.TaxFormsCount)
	assert.Zero(t, created.DocumentsCount)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, []string{"User created"}, toasts.successes)
}

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	table, _, toasts := newTestTable(t)

	err := table.Create(context.Background(), Form{FirstName: "A", LastName: "B"})
	require.Error(t, err)
	assert.Len(t, table.Users(), 4)
	assert.Equal(t, []string{"email is required"}, toasts.errors)
}

func TestEditPatchesOnlyTargetRecord(t *testing.T) {
	table, _, _ := newTestTable(t)
	before := table.Users()

	form := Form{FirstName: "Meera", LastName: "Iyer", Email: "meera@swifttax.in", Status: model.StatusSuspended}
	require.NoError(t, table.Edit(context.Background(), 3, form))

	after := table.Users()
	require.Len(t, after, 4)
	for i, u := range after {
		if u.ID == 3 {
			assert.Equal(t, model.StatusSuspended, u.Status)
			expected := before[i]
			expected.Status = model.StatusSuspended
			assert.Equal(t, expected, u, "only the status field may change")
			continue
		}
		assert.Equal(t, before[i], u, "other records must be untouched")
	}
}

func TestSelectAllTracksFilteredView(t *testing.T) {
	table, _, _ := newTestTable(t)

	table.SetStatusFilter(model.StatusActive)
	table.SelectAllVisible()

	assert.Equal(t, []int{1, 2}, table.Selected())
	assert.True(t, table.AllVisibleSelected())

	// narrowing the filter keeps the header checkbox checked as long as
	// every remaining visible row is still selected
	table.SetRoleFilter(model.RoleUser)
	assert.True(t, table.AllVisibleSelected())

	// widening it brings unselected rows into view
	table.SetStatusFilter("")
	table.SetRoleFilter("")
	assert.False(t, table.AllVisibleSelected())
}

func TestAllVisibleSelectedFalseWhenNothingVisible(t *testing.T) {
	table, _, _ := newTestTable(t)

	table.SelectAllVisible()
	table.SetSearch("no such user")

	assert.Empty(t, table.Visible())
	assert.False(t, table.AllVisibleSelected())
}

func TestSingleActionTransitionsStatus(t *testing.T) {
	table, _, toasts := newTestTable(t)

	require.NoError(t, table.SingleAction(context.Background(), 2, ActionSuspend))

	for _, u := range table.Users() {
		if u.ID == 2 {
			assert.Equal(t, model.StatusSuspended, u.Status)
		}
	}
	assert.Equal(t, []string{"User suspended"}, toasts.successes)
}

func TestSingleActionFailureLeavesRowUntouched(t *testing.T) {
	table, api, toasts := newTestTable(t)
	api.statusErr = errors.New("timeout")

	err := table.SingleAction(context.Background(), 2, ActionDeactivate)
	require.Error(t, err)

	for _, u := range table.Users() {
		if u.ID == 2 {
			assert.Equal(t, model.StatusActive, u.Status)
		}
	}
	require.Len(t, toasts.errors, 1)
	assert.Contains(t, toasts.errors[0], "deactivate")
}

func TestSingleDeleteRemovesRowPreservingOrder(t *testing.T) {
	table, _, _ := newTestTable(t)

	require.NoError(t, table.SingleAction(context.Background(), 2, ActionDelete))
	assert.Equal(t, []int{1, 3, 4}, visibleIDs(table.Users()))
}

func TestVisibleSubsetOfUnderlyingList(t *testing.T) {
	table, _, _ := newTestTable(t)
	table.SetSearch("a")

	all := map[int]bool{}
	for _, u := range table.Users() {
		all[u.ID] = true
	}
	for _, u := range table.Visible() {
		assert.True(t, all[u.ID], fmt.Sprintf("visible user %d not in underlying list", u.ID))
	}
}
