package admintable

import (
	"errors"

	"github.com/swifttax/swifttax-api/internal/model"
)

// Form is the bounded user edit form. It produces either a full create
// payload or a partial patch; it never exposes the externally owned
// counters, so neither output can touch them.
type Form struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	Status    string
	PANNumber string
	Phone     string
}

// Validate enforces the required identity fields and the role and status
// enums when set
func (f *Form) Validate() error {
	if f.FirstName == "" {
		return errors.New("first name is required")
	}
	if f.LastName == "" {
		return errors.New("last name is required")
	}
	if f.Email == "" {
		return errors.New("email is required")
	}
	switch f.Role {
	case "", model.RoleUser, model.RoleAccountant, model.RoleAdmin:
	default:
		return errors.New("invalid role")
	}
	switch f.Status {
	case "", model.StatusActive, model.StatusInactive, model.StatusSuspended:
	default:
		return errors.New("invalid status")
	}
	return nil
}

// ToCreate builds the create payload
func (f *Form) ToCreate() model.UserCreate {
	create := model.UserCreate{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
		Role:      f.Role,
		Status:    f.Status,
	}
	if f.PANNumber != "" {
		pan := f.PANNumber
		create.PANNumber = &pan
	}
	if f.Phone != "" {
		phone := f.Phone
		create.Phone = &phone
	}
	return create
}

// ToPatch builds a partial patch; empty fields are omitted and leave the
// record untouched
func (f *Form) ToPatch() model.UserUpdate {
	var patch model.UserUpdate
	if f.FirstName != "" {
		v := f.FirstName
		patch.FirstName = &v
	}
	if f.LastName != "" {
		v := f.LastName
		patch.LastName = &v
	}
	if f.Email != "" {
		v := f.Email
		patch.Email = &v
	}
	if f.Role != "" {
		v := f.Role
		patch.Role = &v
	}
	if f.Status != "" {
		v := f.Status
		patch.Status = &v
	}
	if f.PANNumber != "" {
		v := f.PANNumber
		patch.PANNumber = &v
	}
	if f.Phone != "" {
		v := f.Phone
		patch.Phone = &v
	}
	return patch
}
