// Package session defines the capabilities the SwiftTax UI shell consumes:
// who the current user is, how to log out, and how to navigate. They are
// passed explicitly so components never reach for ambient state.
package session

import (
	"context"

	"github.com/swifttax/swifttax-api/internal/model"
)

// Session supplies the current user identity and a logout operation
type Session interface {
	// CurrentUser returns the signed-in user, or nil when nobody is signed in
	CurrentUser() *model.User
	// Logout ends the session
	Logout(ctx context.Context) error
}

// Navigator is the navigation capability used for logout redirects and
// notification deep links
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(path string)

// Navigate calls f(path)
func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// Static is a Session backed by a fixed user and logout callback
type Static struct {
	user   *model.User
	logout func(ctx context.Context) error
}

// NewStatic creates a session for an already authenticated user. logout may
// be nil.
func NewStatic(user *model.User, logout func(ctx context.Context) error) *Static {
	return &Static{
		user:   user,
		logout: logout,
	}
}

// CurrentUser returns the session's user
func (s *Static) CurrentUser() *model.User {
	return s.user
}

// Logout runs the logout callback and clears the user
func (s *Static) Logout(ctx context.Context) error {
	var err error
	if s.logout != nil {
		err = s.logout(ctx)
	}
	s.user = nil
	return err
}
