package admintable

import (
	"testing"

	"github.com/swifttax/swifttax-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormValidate(t *testing.T) {
	valid := Form{FirstName: "A", LastName: "B", Email: "a@b.com"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		form Form
		want string
	}{
		{"missing first name", Form{LastName: "B", Email: "a@b.com"}, "first name is required"},
		{"missing last name", Form{FirstName: "A", Email: "a@b.com"}, "last name is required"},
		{"missing email", Form{FirstName: "A", LastName: "B"}, "email is required"},
		{"bad role", Form{FirstName: "A", LastName: "B", Email: "a@b.com", Role: "superuser"}, "invalid role"},
		{"bad status", Form{FirstName: "A", LastName: "B", Email: "a@b.com", Status: "banned"}, "invalid status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestToPatchOmitsEmptyFields(t *testing.T) {
	form := Form{FirstName: "A", LastName: "B", Email: "a@b.com", Status: model.StatusSuspended}
	patch := form.ToPatch()

	require.NotNil(t, patch.Status)
	assert.Equal(t, model.StatusSuspended, *patch.Status)

	assert.Nil(t, patch.Role)
	assert.Nil(t, patch.PANNumber)
	assert.Nil(t, patch.Phone)
}

func TestToCreateCarriesOptionalPointers(t *testing.T) {
	form := Form{FirstName: "A", LastName: "B", Email: "a@b.com", PANNumber: "ABCDE1234F", Phone: "+91-9876543210"}
	create := form.ToCreate()

	require.NotNil(t, create.PANNumber)
	assert.Equal(t, "ABCDE1234F", *create.PANNumber)
	require.NotNil(t, create.Phone)
	assert.Equal(t, "+91-9876543210", *create.Phone)

	empty := Form{FirstName: "A", LastName: "B", Email: "a@b.com"}
	assert.Nil(t, empty.ToCreate().PANNumber)
	assert.Nil(t, empty.ToCreate().Phone)
}
