package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sushihentaime/agencysite/internal/common"
	"golang.org/x/exp/rand"
)

const (
	defaultMaxRetries = 5
	defaultRetryDelay = 500 * time.Millisecond
)

// NewMailService creates the consumers' mailer. adminEmail receives review and inquiry notifications.
func NewMailService(mb common.MessageConsumer, host, username, password, sender, adminEmail string, port int, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:         mb,
		m:          NewMailer(host, port, username, password, sender, NewTemplate()),
		logger:     logger,
		adminEmail: adminEmail,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SendActivationEmail mails the activation token of every newly registered user.
func (s *MailService) SendActivationEmail() {
	s.consume(common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue, func(body []byte) (*outgoing, error) {
		var event common.UserCreatedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return nil, err
		}

		return &outgoing{
			recipient: event.Email,
			template:  "activation_email.html",
			data:      struct{ ActivationToken string }{ActivationToken: event.Token},
		}, nil
	})
}

// SendReviewNotification tells the site admin about every new review awaiting moderation.
func (s *MailService) SendReviewNotification() {
	s.consume(common.ReviewCreatedKey, common.ContentExchange, common.ReviewCreatedQueue, func(body []byte) (*outgoing, error) {
		var event common.ReviewCreatedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return nil, err
		}

		return &outgoing{recipient: s.adminEmail, template: "review_created.html", data: event}, nil
	})
}

// SendInquiryNotification tells the site admin about every public form submission.
func (s *MailService) SendInquiryNotification() {
	s.consume(common.InquiryReceivedKey, common.ContentExchange, common.InquiryReceivedQueue, func(body []byte) (*outgoing, error) {
		var event common.InquiryReceivedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return nil, err
		}

		return &outgoing{recipient: s.adminEmail, template: "inquiry_received.html", data: event}, nil
	})
}

// consume starts a goroutine turning every delivery on queue into one email. Sending is
// retried with exponential backoff and jitter; the delivery is acked either way.
func (s *MailService) consume(key common.BindingKey, exchange common.Exchange, queue common.Queue, build func(body []byte) (*outgoing, error)) {
	msgs, err := s.mb.Consume(key, exchange, queue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("queue", string(queue)), slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				out, err := build(msg.Body)
				if err != nil {
					s.logger.Error("could not unmarshal message", slog.String("queue", string(queue)), slog.String("error", err.Error()))
					msg.Ack(false)
					continue
				}

				if err := s.deliver(out); err != nil {
					s.logger.Error("could not send email", slog.String("template", out.template), slog.String("email", out.recipient), slog.String("error", err.Error()))
				}
				msg.Ack(false)

			case <-s.ctx.Done():
				s.logger.Info("stopping consumer due to context cancellation", slog.String("queue", string(queue)))
				return
			}
		}
	}()
}

func (s *MailService) deliver(out *outgoing) error {
	var err error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err = s.m.send(out.recipient, out.data, out.template)
		if err == nil {
			s.logger.Info("email sent", slog.String("template", out.template), slog.String("email", out.recipient))
			return nil
		}

		delay := time.Duration(rand.Int63n(int64(s.retryDelay) << uint(attempt)))
		s.logger.Info("delaying email", slog.String("email", out.recipient), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return s.ctx.Err()
		}
	}

	return err
}

func (s *MailService) Close() {
	s.cancel()
}
