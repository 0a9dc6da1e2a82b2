package panel

import (
	"context"
	"strings"
	"sync"

	"github.com/swifttax/swifttax-api/internal/model"
	"github.com/swifttax/swifttax-api/internal/session"

	"go.uber.org/zap"
)

// Header composes the session display, the logout control and the
// notification panel trigger. It owns nothing beyond two independent
// toggles; each closes only on its own explicit trigger.
type Header struct {
	mu     sync.Mutex
	sess   session.Session
	nav    session.Navigator
	panel  *Panel
	logger *zap.Logger

	notificationsOpen bool
	userMenuOpen      bool
}

// NewHeader creates the session shell around a notification panel
func NewHeader(sess session.Session, nav session.Navigator, p *Panel, logger *zap.Logger) *Header {
	return &Header{
		sess:   sess,
		nav:    nav,
		panel:  p,
		logger: logger,
	}
}

// ToggleNotifications opens or closes the notification panel. Without a
// signed-in user the whole interactive region is disabled.
func (h *Header) ToggleNotifications(ctx context.Context) {
	if h.sess.CurrentUser() == nil {
		return
	}

	h.mu.Lock()
	h.notificationsOpen = !h.notificationsOpen
	open := h.notificationsOpen
	h.mu.Unlock()

	if open {
		h.panel.Open(ctx)
	} else {
		h.panel.Close()
	}
}

// ToggleUserMenu opens or closes the user menu, independently of the
// notification panel
func (h *Header) ToggleUserMenu() {
	if h.sess.CurrentUser() == nil {
		return
	}

	h.mu.Lock()
	h.userMenuOpen = !h.userMenuOpen
	h.mu.Unlock()
}

// NotificationsOpen reports whether the notification panel toggle is open
func (h *Header) NotificationsOpen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.notificationsOpen
}

// UserMenuOpen reports whether the user menu toggle is open
func (h *Header) UserMenuOpen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.userMenuOpen
}

// Panel exposes the embedded notification panel
func (h *Header) Panel() *Panel {
	return h.panel
}

// Logout ends the session and navigates to the login route. Navigation
// happens even if the logout call fails; the failure is only logged.
func (h *Header) Logout(ctx context.Context) {
	if h.sess.CurrentUser() == nil {
		return
	}

	if err := h.sess.Logout(ctx); err != nil {
		h.logger.Warn("logout failed", zap.Error(err))
	}

	if h.nav != nil {
		h.nav.Navigate("/login")
	}
}

// Initials derives the avatar initials from a user's name
func Initials(u *model.User) string {
	if u == nil {
		return ""
	}

	var b strings.Builder
	if u.FirstName != "" {
		b.WriteString(strings.ToUpper(u.FirstName[:1]))
	}
	if u.LastName != "" {
		b.WriteString(strings.ToUpper(u.LastName[:1]))
	}
	return b.String()
}
