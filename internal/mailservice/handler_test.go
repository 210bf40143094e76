package mailservice

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/agencysite/internal/common"
)

func newTestMailService(mc *MockMessageConsumer, mailer *MockMailer) *MailService {
	ctx, cancel := context.WithCancel(context.Background())

	return &MailService{
		mb:         mc,
		m:          mailer,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		adminEmail: "admin@example.com",
		maxRetries: 3,
		retryDelay: time.Millisecond,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func mustJSON(t *testing.T, v any) []byte {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestSendActivationEmail(t *testing.T) {
	mc := &MockMessageConsumer{Body: mustJSON(t, common.UserCreatedEvent{Email: "test@example.com", Token: "testtoken"})}
	mc.On("Consume", common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue).Return(nil)
	mailer := new(MockMailer)

	s := newTestMailService(mc, mailer)
	t.Cleanup(s.Close)

	s.SendActivationEmail()

	assert.Eventually(t, func() bool { return len(mailer.Sent()) == 1 }, time.Second, 10*time.Millisecond)

	sent := mailer.Sent()[0]
	assert.Equal(t, "test@example.com", sent.Recipient)
	assert.Equal(t, "activation_email.html", sent.Template)
	assert.Equal(t, struct{ ActivationToken string }{ActivationToken: "testtoken"}, sent.Data)

	mc.AssertExpectations(t)
}

func TestSendReviewNotification(t *testing.T) {
	event := common.ReviewCreatedEvent{ReviewID: 4, Name: "Jane Doe", Rating: 5, Comment: "Great service", CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	mc := &MockMessageConsumer{Body: mustJSON(t, event)}
	mc.On("Consume", common.ReviewCreatedKey, common.ContentExchange, common.ReviewCreatedQueue).Return(nil)
	mailer := new(MockMailer)

	s := newTestMailService(mc, mailer)
	t.Cleanup(s.Close)

	s.SendReviewNotification()

	assert.Eventually(t, func() bool { return len(mailer.Sent()) == 1 }, time.Second, 10*time.Millisecond)

	sent := mailer.Sent()[0]
	assert.Equal(t, "admin@example.com", sent.Recipient)
	assert.Equal(t, "review_created.html", sent.Template)
	assert.Equal(t, event, sent.Data)
}

func TestSendInquiryNotificationRetries(t *testing.T) {
	event := common.InquiryReceivedEvent{Kind: common.KindProjectInquiries, ID: 1, Name: "Jane Doe", Email: "jane@example.com", Summary: "web"}
	mc := &MockMessageConsumer{Body: mustJSON(t, event)}
	mc.On("Consume", common.InquiryReceivedKey, common.ContentExchange, common.InquiryReceivedQueue).Return(nil)
	mailer := &MockMailer{failures: 2}

	s := newTestMailService(mc, mailer)
	t.Cleanup(s.Close)

	s.SendInquiryNotification()

	assert.Eventually(t, func() bool { return len(mailer.Sent()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 3, mailer.Attempts())
	assert.Equal(t, "inquiry_received.html", mailer.Sent()[0].Template)
}

func TestDeliverGivesUp(t *testing.T) {
	mailer := &MockMailer{failures: 10}
	s := newTestMailService(new(MockMessageConsumer), mailer)
	t.Cleanup(s.Close)

	err := s.deliver(&outgoing{recipient: "admin@example.com", template: "review_created.html"})
	assert.ErrorIs(t, err, errMockSend)
	assert.Equal(t, 3, mailer.Attempts())
	assert.Empty(t, mailer.Sent())
}

func TestConsumeMalformedMessage(t *testing.T) {
	mc := &MockMessageConsumer{Body: []byte("not json")}
	mc.On("Consume", common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue).Return(nil)
	mailer := new(MockMailer)

	s := newTestMailService(mc, mailer)
	t.Cleanup(s.Close)

	s.SendActivationEmail()

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, mailer.Attempts())
}

func TestConsumeError(t *testing.T) {
	mc := new(MockMessageConsumer)
	mc.On("Consume", common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue).Return(errors.New("channel closed"))
	mailer := new(MockMailer)

	s := newTestMailService(mc, mailer)
	t.Cleanup(s.Close)

	s.SendActivationEmail()

	assert.Zero(t, mailer.Attempts())
	mc.AssertExpectations(t)
}
