package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string {
	return &s
}

func TestValidator(t *testing.T) {
	testCases := []struct {
		name  string
		check func(v *Validator)
		want  map[string]string
	}{
		{
			name:  "required present",
			check: func(v *Validator) { v.CheckRequired("Jane Doe", "name", 100) },
			want:  map[string]string{},
		},
		{
			name:  "required missing",
			check: func(v *Validator) { v.CheckRequired("", "name", 100) },
			want:  map[string]string{"name": "must be provided"},
		},
		{
			name:  "required too long",
			check: func(v *Validator) { v.CheckRequired("abcdef", "name", 5) },
			want:  map[string]string{"name": "must not be more than 5 characters long"},
		},
		{
			name:  "length counts runes",
			check: func(v *Validator) { v.CheckRequired("ééééé", "name", 5) },
			want:  map[string]string{},
		},
		{
			name:  "optional nil",
			check: func(v *Validator) { v.CheckOptional(nil, "company", 5) },
			want:  map[string]string{},
		},
		{
			name:  "optional too long",
			check: func(v *Validator) { v.CheckOptional(strptr("abcdef"), "company", 5) },
			want:  map[string]string{"company": "must not be more than 5 characters long"},
		},
		{
			name:  "invalid email",
			check: func(v *Validator) { v.CheckEmail("jane@") },
			want:  map[string]string{"email": "must be a valid email address"},
		},
		{
			name:  "first error wins",
			check: func(v *Validator) { v.CheckEmail("") },
			want:  map[string]string{"email": "must be provided"},
		},
		{
			name:  "non positive id",
			check: func(v *Validator) { v.CheckID(0, "id") },
			want:  map[string]string{"id": "must be greater than zero"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewValidator()
			tc.check(v)
			assert.Equal(t, tc.want, v.Errors)
			assert.Equal(t, len(tc.want) == 0, v.Valid())
		})
	}
}

func TestEntityKindValid(t *testing.T) {
	for _, kind := range EntityKinds {
		assert.True(t, kind.Valid(), string(kind))
	}

	assert.False(t, EntityKind("users").Valid())
	assert.False(t, EntityKind("").Valid())
}
