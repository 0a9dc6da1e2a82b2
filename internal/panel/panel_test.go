package panel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/swifttax/swifttax-api/internal/model"
	"github.com/swifttax/swifttax-api/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeNotificationAPI struct {
	mu        sync.Mutex
	items     []model.Notification
	listErr   error
	deleteErr error
	markErr   error

	listCalls int
	marked    chan int
	deleted   []int

	// when set, List blocks: it signals listStarted and waits on listRelease
	listStarted chan struct{}
	listRelease chan struct{}
}

func (f *fakeNotificationAPI) List(ctx context.Context, limit int) ([]model.Notification, error) {
	if f.listStarted != nil {
		f.listStarted <- struct{}{}
		<-f.listRelease
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++

	if f.listErr != nil {
		return nil, f.listErr
	}

	items := f.items
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]model.Notification, len(items))
	copy(out, items)
	return out, nil
}

func (f *fakeNotificationAPI) MarkRead(ctx context.Context, id int) error {
	if f.marked != nil {
		f.marked <- id
	}
	return f.markErr
}

func (f *fakeNotificationAPI) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingNavigator) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recordingNavigator) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

func notifications(n int) []model.Notification {
	items := make([]model.Notification, n)
	for i := range items {
		items[i] = model.Notification{
			ID:        i + 1,
			Type:      model.NotificationTaxDeadline,
			Title:     "Filing deadline",
			Message:   "ITR filing closes soon",
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Hour),
		}
	}
	return items
}

func TestOpenFetchesAndCapsDisplay(t *testing.T) {
	api := &fakeNotificationAPI{items: notifications(8)}
	p := New(api, nil, zap.NewNop())

	require.Equal(t, StateClosed, p.State())

	p.Open(context.Background())

	assert.Equal(t, StateReady, p.State())
	assert.Len(t, p.Items(), DisplayLimit)
}

func TestUnreadCountIsDerivedFromHeldList(t *testing.T) {
	items := notifications(4)
	items[1].Read = true
	api := &fakeNotificationAPI{items: items}
	p := New(api, nil, zap.NewNop())

	p.Open(context.Background())
	assert.Equal(t, 3, p.UnreadCount())

	// removing an unread item drops the derived count with it
	require.NoError(t, p.Delete(context.Background(), 1))
	assert.Equal(t, 2, p.UnreadCount())

	// removing a read item leaves it untouched
	require.NoError(t, p.Delete(context.Background(), 2))
	assert.Equal(t, 2, p.UnreadCount())
}

func TestOpenFailureKeepsPreviousList(t *testing.T) {
	api := &fakeNotificationAPI{items: notifications(3)}
	p := New(api, nil, zap.NewNop())

	p.Open(context.Background())
	require.Len(t, p.Items(), 3)
	p.Close()

	api.mu.Lock()
	api.listErr = errors.New("gateway timeout")
	api.mu.Unlock()

	p.Open(context.Background())

	assert.Equal(t, StateReady, p.State())
	assert.Len(t, p.Items(), 3, "stale list must survive a failed refresh")
}

func TestCloseDiscardsInFlightFetch(t *testing.T) {
	api := &fakeNotificationAPI{
		items:       notifications(3),
		listStarted: make(chan struct{}, 1),
		listRelease: make(chan struct{}),
	}
	p := New(api, nil, zap.NewNop())

	done := make(chan struct{})
	go func() {
		p.Open(context.Background())
		close(done)
	}()

	<-api.listStarted
	p.Close()
	close(api.listRelease)
	<-done

	assert.Equal(t, StateClosed, p.State())
	assert.Empty(t, p.Items(), "a response arriving after Close must be discarded")
}

func TestMarkAsReadClosesAndNavigates(t *testing.T) {
	items := notifications(2)
	items[0].ActionURL = "/documents/42"
	api := &fakeNotificationAPI{items: items, marked: make(chan int, 1)}
	nav := &recordingNavigator{}
	p := New(api, nav, zap.NewNop())

	p.Open(context.Background())
	p.MarkAsRead(1)

	assert.Equal(t, StateClosed, p.State())
	assert.Equal(t, []string{"/documents/42"}, nav.Paths())

	select {
	case id := <-api.marked:
		assert.Equal(t, 1, id)
	case <-time.After(time.Second):
		t.Fatal("mark-as-read request was never dispatched")
	}

	// the local read flag is not flipped; server state shows on next open
	for _, n := range p.Items() {
		assert.False(t, n.Read)
	}
}

func TestMarkAsReadWithoutActionURLStillCloses(t *testing.T) {
	api := &fakeNotificationAPI{items: notifications(2), marked: make(chan int, 1)}
	nav := &recordingNavigator{}
	p := New(api, nav, zap.NewNop())

	p.Open(context.Background())
	p.MarkAsRead(2)

	assert.Equal(t, StateClosed, p.State())
	assert.Empty(t, nav.Paths())
	<-api.marked
}

func TestDeleteRemovesLocally(t *testing.T) {
	api := &fakeNotificationAPI{items: notifications(3)}
	p := New(api, nil, zap.NewNop())

	p.Open(context.Background())
	require.NoError(t, p.Delete(context.Background(), 2))

	ids := []int{}
	for _, n := range p.Items() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []int{1, 3}, ids)
	assert.Equal(t, []int{2}, api.deleted)
}

func TestDeleteFailureRestoresItemInPlace(t *testing.T) {
	api := &fakeNotificationAPI{items: notifications(3)}
	p := New(api, nil, zap.NewNop())

	p.Open(context.Background())

	api.mu.Lock()
	api.deleteErr = errors.New("connection reset")
	api.mu.Unlock()

	err := p.Delete(context.Background(), 2)
	require.Error(t, err)

	ids := []int{}
	for _, n := range p.Items() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []int{1, 2, 3}, ids, "failed delete must roll back at the original position")
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	api := &fakeNotificationAPI{items: notifications(2)}
	p := New(api, nil, zap.NewNop())

	p.Open(context.Background())
	require.NoError(t, p.Delete(context.Background(), 99))
	assert.Len(t, p.Items(), 2)
}

var _ session.Navigator = (*recordingNavigator)(nil)
