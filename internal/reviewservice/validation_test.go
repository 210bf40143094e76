package reviewservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/agencysite/internal/common"
)

func strptr(s string) *string {
	return &s
}

func TestValidateRating(t *testing.T) {
	testCases := []struct {
		rating int
		valid  bool
	}{
		{rating: -1, valid: false},
		{rating: 0, valid: false},
		{rating: 1, valid: true},
		{rating: 3, valid: true},
		{rating: 5, valid: true},
		{rating: 6, valid: false},
	}

	for _, tc := range testCases {
		v := common.NewValidator()
		validateRating(v, tc.rating)
		assert.Equal(t, tc.valid, v.Valid(), "rating %d", tc.rating)
	}
}

func TestValidateCreateReview(t *testing.T) {
	valid := func() CreateReviewRequest {
		return CreateReviewRequest{Name: "Jane Doe", Comment: "Great service", Rating: 5, UserID: 1}
	}

	testCases := []struct {
		name   string
		modify func(r *CreateReviewRequest)
		want   map[string]string
	}{
		{
			name:   "valid",
			modify: func(r *CreateReviewRequest) {},
			want:   map[string]string{},
		},
		{
			name: "optional fields",
			modify: func(r *CreateReviewRequest) {
				r.Company = strptr("Acme")
				r.ServiceType = strptr("web-development")
			},
			want: map[string]string{},
		},
		{
			name:   "missing name and comment",
			modify: func(r *CreateReviewRequest) { r.Name, r.Comment = "", "" },
			want:   map[string]string{"name": "must be provided", "comment": "must be provided"},
		},
		{
			name:   "rating zero",
			modify: func(r *CreateReviewRequest) { r.Rating = 0 },
			want:   map[string]string{"rating": "must be between 1 and 5"},
		},
		{
			name:   "rating six",
			modify: func(r *CreateReviewRequest) { r.Rating = 6 },
			want:   map[string]string{"rating": "must be between 1 and 5"},
		},
		{
			name:   "anonymous author",
			modify: func(r *CreateReviewRequest) { r.UserID = 0 },
			want:   map[string]string{"user_id": "must be greater than zero"},
		},
		{
			name:   "comment too long",
			modify: func(r *CreateReviewRequest) { r.Comment = strings.Repeat("a", 2001) },
			want:   map[string]string{"comment": "must not be more than 2000 characters long"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid()
			tc.modify(&req)

			v := common.NewValidator()
			validateCreateReview(v, &req)
			assert.Equal(t, tc.want, v.Errors)
		})
	}
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultRecentLimit, normalizeLimit(0, DefaultRecentLimit))
	assert.Equal(t, DefaultRecentLimit, normalizeLimit(-3, DefaultRecentLimit))
	assert.Equal(t, 7, normalizeLimit(7, DefaultRecentLimit))
	assert.Equal(t, MaxListLimit, normalizeLimit(1000, DefaultRecentLimit))
}
