// Package admintable implements the admin user-management table: filtering,
// multi-select, and single or bulk lifecycle actions over the user API.
package admintable

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/swifttax/swifttax-api/internal/model"

	"go.uber.org/zap"
)

// Row actions accepted by SingleAction
const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
	ActionSuspend    = "suspend"
	ActionDelete     = "delete"
)

// API is the user backend the table talks to
type API interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, create model.UserCreate) (*model.User, error)
	Update(ctx context.Context, id int, update model.UserUpdate) (*model.User, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	Delete(ctx context.Context, id int) error
	Bulk(ctx context.Context, action string, ids []int) (int, error)
}

// Toasts receives the transient success and error messages the table emits
type Toasts interface {
	Success(msg string)
	Error(msg string)
}

// Table owns the in-memory user list for the session. The server remains the
// source of truth; the table mirrors it optimistically after each action.
// The underlying order is server-determined and is never changed by
// filtering or selection.
type Table struct {
	mu     sync.Mutex
	api    API
	toasts Toasts
	logger *zap.Logger

	users    []model.User
	selected map[int]struct{}

	search       string
	roleFilter   string
	statusFilter string
}

// New creates an empty table controller
func New(api API, toasts Toasts, logger *zap.Logger) *Table {
	return &Table{
		api:      api,
		toasts:   toasts,
		logger:   logger,
		selected: make(map[int]struct{}),
	}
}

// Load replaces the table contents from the API and clears the selection
func (t *Table) Load(ctx context.Context) error {
	users, err := t.api.List(ctx)
	if err != nil {
		t.logger.Warn("failed to load users", zap.Error(err))
		t.toasts.Error("Failed to load users")
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.users = users
	t.selected = make(map[int]struct{})
	return nil
}

// SetSearch sets the free-text filter term
func (t *Table) SetSearch(term string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.search = term
}

// SetRoleFilter sets the exact-match role filter; empty matches all
func (t *Table) SetRoleFilter(role string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.roleFilter = role
}

// SetStatusFilter sets the exact-match status filter; empty matches all
func (t *Table) SetStatusFilter(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statusFilter = status
}

// Visible returns the filtered view of the table
func (t *Table) Visible() []model.User {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Filter(t.users, t.search, t.roleFilter, t.statusFilter)
}

// Filter computes the visible subset: a case-insensitive substring match of
// the search term against first name, last name or email, conjoined with
// exact role and status matches. Empty filters impose no constraint. The
// result preserves input order and the input is never mutated.
func Filter(users []model.User, search, role, status string) []model.User {
	term := strings.ToLower(search)

	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if term != "" &&
			!strings.Contains(strings.ToLower(u.FirstName), term) &&
			!strings.Contains(strings.ToLower(u.LastName), term) &&
			!strings.Contains(strings.ToLower(u.Email), term) {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		if status != "" && u.Status != status {
			continue
		}
		out = append(out, u)
	}
	return out
}

// ToggleSelect flips a row's selection
func (t *Table) ToggleSelect(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.selected[id]; ok {
		delete(t.selected, id)
	} else {
		t.selected[id] = struct{}{}
	}
}

// SelectAllVisible selects exactly the currently visible rows. Select-all
// tracks the filtered view, not the full list.
func (t *Table) SelectAllVisible() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.selected = make(map[int]struct{})
	for _, u := range Filter(t.users, t.search, t.roleFilter, t.statusFilter) {
		t.selected[u.ID] = struct{}{}
	}
}

// ClearSelection empties the selection
func (t *Table) ClearSelection() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = make(map[int]struct{})
}

// AllVisibleSelected reports whether every currently visible row is selected
// and the visible set is non-empty. Membership is what counts: narrowing the
// filter after a select-all keeps the header checkbox checked as long as all
// remaining visible rows are still selected.
func (t *Table) AllVisibleSelected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	visible := Filter(t.users, t.search, t.roleFilter, t.statusFilter)
	if len(visible) == 0 {
		return false
	}
	for _, u := range visible {
		if _, ok := t.selected[u.ID]; !ok {
			return false
		}
	}
	return true
}

// Selected returns the selected ids in ascending order
func (t *Table) Selected() []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]int, 0, len(t.selected))
	for id := range t.selected {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SingleAction applies one lifecycle action to one row: a status transition
// or a delete. The local list is only touched after the API call succeeds.
func (t *Table) SingleAction(ctx context.Context, id int, action string) error {
	var err error
	switch action {
	case ActionActivate:
		err = t.api.UpdateStatus(ctx, id, model.StatusActive)
	case ActionDeactivate:
		err = t.api.UpdateStatus(ctx, id, model.StatusInactive)
	case ActionSuspend:
		err = t.api.UpdateStatus(ctx, id, model.StatusSuspended)
	case ActionDelete:
		err = t.api.Delete(ctx, id)
	default:
		err = fmt.Errorf("unknown action %q", action)
	}

	if err != nil {
		t.logger.Warn("user action failed", zap.Error(err), zap.String("action", action), zap.Int("id", id))
		t.toasts.Error("Failed to " + action + " user")
		return err
	}

	t.mu.Lock()
	switch action {
	case ActionActivate:
		t.setStatus(id, model.StatusActive)
	case ActionDeactivate:
		t.setStatus(id, model.StatusInactive)
	case ActionSuspend:
		t.setStatus(id, model.StatusSuspended)
	case ActionDelete:
		t.remove(id)
		delete(t.selected, id)
	}
	t.mu.Unlock()

	t.toasts.Success("User " + pastTense(action))
	return nil
}

// BulkAction applies one action to every selected row in a single batch
// call. An empty selection is a user error and makes no network call. The
// selection is cleared on every outcome, success or failure.
func (t *Table) BulkAction(ctx context.Context, action string) error {
	ids := t.Selected()
	if len(ids) == 0 {
		t.toasts.Error("No users selected")
		return nil
	}

	defer t.ClearSelection()

	affected, err := t.api.Bulk(ctx, action, ids)
	if err != nil {
		t.logger.Warn("bulk action failed", zap.Error(err), zap.String("action", action), zap.Ints("ids", ids))
		t.toasts.Error("Failed to " + action + " selected users")
		return err
	}

	t.mu.Lock()
	for _, id := range ids {
		switch action {
		case model.BulkActivate:
			t.setStatus(id, model.StatusActive)
		case model.BulkDeactivate:
			t.setStatus(id, model.StatusInactive)
		case model.BulkDelete:
			t.remove(id)
		}
	}
	t.mu.Unlock()

	t.toasts.Success(fmt.Sprintf("%d users %s", affected, pastTense(action)))
	return nil
}

// Create submits the form in create mode and appends the server-assigned
// record. The server zeroes both counters and stamps createdAt no matter
// what the form supplied.
func (t *Table) Create(ctx context.Context, form Form) error {
	if err := form.Validate(); err != nil {
		t.toasts.Error(err.Error())
		return err
	}

	user, err := t.api.Create(ctx, form.ToCreate())
	if err != nil {
		t.logger.Warn("failed to create user", zap.Error(err))
		t.toasts.Error("Failed to create user")
		return err
	}

	t.mu.Lock()
	t.users = append(t.users, *user)
	t.mu.Unlock()

	t.toasts.Success("User created")
	return nil
}

// Edit submits the form in edit mode: a partial patch merged into the
// record by id. Only that record changes; its position is preserved.
func (t *Table) Edit(ctx context.Context, id int, form Form) error {
	if err := form.Validate(); err != nil {
		t.toasts.Error(err.Error())
		return err
	}

	user, err := t.api.Update(ctx, id, form.ToPatch())
	if err != nil {
		t.logger.Warn("failed to update user", zap.Error(err), zap.Int("id", id))
		t.toasts.Error("Failed to update user")
		return err
	}

	t.mu.Lock()
	for i := range t.users {
		if t.users[i].ID == id {
			t.users[i] = *user
			break
		}
	}
	t.mu.Unlock()

	t.toasts.Success("User updated")
	return nil
}

// Users returns a copy of the full underlying list in server order
func (t *Table) Users() []model.User {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]model.User, len(t.users))
	copy(out, t.users)
	return out
}

// setStatus and remove require t.mu to be held

func (t *Table) setStatus(id int, status string) {
	for i := range t.users {
		if t.users[i].ID == id {
			t.users[i].Status = status
			return
		}
	}
}

func (t *Table) remove(id int) {
	for i := range t.users {
		if t.users[i].ID == id {
			t.users = append(t.users[:i:i], t.users[i+1:]...)
			return
		}
	}
}

func pastTense(action string) string {
	switch action {
	case ActionActivate:
		return "activated"
	case ActionDeactivate:
		return "deactivated"
	case ActionSuspend:
		return "suspended"
	case ActionDelete:
		return "deleted"
	default:
		return action + "d"
	}
}
