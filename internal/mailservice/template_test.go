package mailservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/agencysite/internal/common"
)

func TestParseTemplate(t *testing.T) {
	template := NewTemplate()

	testCases := []struct {
		name         string
		templateName string
		data         any
		wantSubject  string
		expectedErr  bool
	}{
		{
			name:         "activation",
			templateName: "activation_email.html",
			data:         struct{ ActivationToken string }{ActivationToken: "ABCDEFGHIJKLMNOPQRSTUVWXYZ"},
			wantSubject:  "Activate your account",
		},
		{
			name:         "review created",
			templateName: "review_created.html",
			data:         common.ReviewCreatedEvent{ReviewID: 1, Name: "Jane Doe", Rating: 5, Comment: "Great", CreatedAt: time.Now()},
			wantSubject:  "New 5-star review from Jane Doe",
		},
		{
			name:         "inquiry received",
			templateName: "inquiry_received.html",
			data:         common.InquiryReceivedEvent{Kind: common.KindContactSubmissions, ID: 2, Name: "Jane Doe", Email: "jane@example.com", Summary: "Hi"},
			wantSubject:  "New contact_submissions from Jane Doe",
		},
		{
			name:         "invalid template name",
			templateName: "invalid_template.html",
			data:         nil,
			expectedErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, p, h, err := template.ParseTemplate(tc.templateName, tc.data)
			assert.Equal(t, tc.expectedErr, err != nil)

			if err == nil {
				assert.Equal(t, tc.wantSubject, s.String())
				assert.NotEmpty(t, p.String())
				assert.NotEmpty(t, h.String())
			}
		})
	}
}
