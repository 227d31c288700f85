package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name                        string
		uname, email, pass, confirm string
		field                       string
	}{
		{name: "valid", uname: "Ada", email: "ada@example.com", pass: "correct-horse", confirm: "correct-horse"},
		{name: "no name", uname: " ", email: "ada@example.com", pass: "correct-horse", confirm: "correct-horse", field: "name"},
		{name: "bad email", uname: "Ada", email: "ada", pass: "correct-horse", confirm: "correct-horse", field: "email"},
		{name: "short password", uname: "Ada", email: "ada@example.com", pass: "short", confirm: "short", field: "password"},
		{name: "mismatch", uname: "Ada", email: "ada@example.com", pass: "correct-horse", confirm: "correct-horsf", field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.uname, tt.email, tt.pass, tt.confirm)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestInteractionType_Valid(t *testing.T) {
	for _, ty := range []InteractionType{InteractionView, InteractionLike, InteractionBookmark, InteractionShare} {
		assert.True(t, ty.Valid(), string(ty))
	}
	assert.False(t, InteractionType("archive").Valid())
}
