package userservice

import (
	"testing"

	"github.com/sushihentaime/agencysite/internal/common"
)

func TestValidateUsername(t *testing.T) {
	testCases := []struct {
		username string
		valid    bool
	}{
		{username: "", valid: false},
		{username: "a", valid: false},
		{username: "ab", valid: false},
		{username: "abc", valid: true},
		{username: "abcd", valid: true},
		{username: "valid123", valid: true},
		{username: "invalid!", valid: false},
		{username: "invalid username", valid: false},
		{username: "invalid-username", valid: false},
		{username: "invalid_username", valid: false},
		{username: "invalid.username", valid: false},
		{username: "abcdefghijklmnopqrstuvwxyz", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.username, func(t *testing.T) {
			v := common.NewValidator()
			validateUsername(v, tc.username)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
				// print the errors
				for _, e := range v.Errors {
					t.Log(e)
				}
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	testCases := []struct {
		email string
		valid bool
	}{
		{email: "", valid: false},
		{email: "a", valid: false},
		{email: "a@", valid: false},
		{email: "a@b", valid: false},
		{email: "a@b.c", valid: false},
		{email: "a@b.com", valid: true},
	}

	for _, tc := range testCases {
		t.Run(tc.email, func(t *testing.T) {
			v := common.NewValidator()
			validateEmail(v, tc.email)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
				// print the errors
				for _, e := range v.Errors {
					t.Log(e)
				}
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	testCases := []struct {
		password string
		valid    bool
	}{
		{password: "", valid: false},
		{password: "a", valid: false},
		{password: "ab", valid: false},
		{password: "abc", valid: false},
		{password: "abcd", valid: false},
		{password: "abcde", valid: false},
		{password: "abcdef", valid: false},
		{password: "password123", valid: false},
		{password: "Password123", valid: false},
		{password: "Password!23", valid: true},
	}

	for _, tc := range testCases {
		t.Run(tc.password, func(t *testing.T) {
			v := common.NewValidator()
			validatePassword(v, tc.password)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
				// print the errors
				for _, e := range v.Errors {
					t.Log(e)
				}
			}
		})
	}
}

func TestValidateAvatarURL(t *testing.T) {
	testCases := []struct {
		name  string
		url   *string
		valid bool
	}{
		{name: "nil clears avatar", url: nil, valid: true},
		{name: "https", url: strptr("https://cdn.example.com/a.png"), valid: true},
		{name: "http", url: strptr("http://cdn.example.com/a.png"), valid: true},
		{name: "no scheme", url: strptr("cdn.example.com/a.png"), valid: false},
		{name: "javascript", url: strptr("javascript:alert(1)"), valid: false},
		{name: "empty", url: strptr(""), valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateAvatarURL(v, tc.url)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v: %v", tc.valid, v.Valid(), v.Errors)
			}
		})
	}
}

func TestPermissionsInclude(t *testing.T) {
	p := Permissions{PermissionWriteReview, PermissionModerate}

	if !p.Include(PermissionModerate) {
		t.Error("expected admin:moderate to be included")
	}
	if p.Include(PermissionWriteBlog) {
		t.Error("expected blog:write to be missing")
	}
	if (Permissions{}).Include(PermissionWriteReview) {
		t.Error("expected empty permissions to include nothing")
	}
}
