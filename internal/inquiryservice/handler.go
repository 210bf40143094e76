package inquiryservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/sushihentaime/agencysite/internal/common"
)

var ErrUnknownInquiryKind = errors.New("unknown inquiry kind")

func NewInquiryService(db *sql.DB, mb common.MessageProducer, cache *common.Cache, logger *slog.Logger) *InquiryService {
	return &InquiryService{
		m:      newInquiryModel(db),
		mb:     mb,
		cache:  cache,
		logger: logger,
	}
}

func (s *InquiryService) SubmitContact(ctx context.Context, c *ContactSubmission) error {
	v := common.NewValidator()
	validateContact(v, c)
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.insertContact(ctx, c); err != nil {
		return err
	}

	summary := c.Subject
	if summary == "" {
		summary = truncate(c.Message, 80)
	}
	s.received(ctx, common.KindContactSubmissions, c.ID, c.Name, c.Email, summary)

	return nil
}

func (s *InquiryService) SubmitProjectInquiry(ctx context.Context, p *ProjectInquiry) error {
	v := common.NewValidator()
	validateProjectInquiry(v, p)
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.insertProjectInquiry(ctx, p); err != nil {
		return err
	}

	s.received(ctx, common.KindProjectInquiries, p.ID, p.Name, p.Email, p.ProjectType)

	return nil
}

func (s *InquiryService) SubmitJobApplication(ctx context.Context, j *JobApplication) error {
	v := common.NewValidator()
	validateJobApplication(v, j)
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.insertJobApplication(ctx, j); err != nil {
		return err
	}

	s.received(ctx, common.KindJobApplications, j.ID, j.Name, j.Email, j.Position)

	return nil
}

// List returns a page of submissions of the given kind, newest first. The concrete
// slice type follows kind. The actor must hold admin:moderate.
func (s *InquiryService) List(ctx context.Context, actorID int, kind common.EntityKind, limit, offset int) (any, error) {
	limit, offset = normalizePage(limit, offset)

	switch kind {
	case common.KindContactSubmissions:
		return s.m.listContacts(ctx, actorID, limit, offset)
	case common.KindProjectInquiries:
		return s.m.listProjectInquiries(ctx, actorID, limit, offset)
	case common.KindJobApplications:
		return s.m.listJobApplications(ctx, actorID, limit, offset)
	default:
		return nil, ErrUnknownInquiryKind
	}
}

// received drops the cached count for kind and announces the submission. A failed
// publish is logged; the submission is already stored.
func (s *InquiryService) received(ctx context.Context, kind common.EntityKind, id int, name, email, summary string) {
	s.cache.Invalidate(common.CacheKeyCount(kind))

	msg, err := json.Marshal(common.InquiryReceivedEvent{
		Kind:    kind,
		ID:      id,
		Name:    name,
		Email:   email,
		Summary: summary,
	})
	if err == nil {
		err = s.mb.Publish(ctx, msg, common.InquiryReceivedKey, common.ContentExchange)
	}
	if err != nil {
		s.logger.Error("could not publish inquiry.received", slog.String("kind", string(kind)), slog.Int("id", id), slog.String("error", err.Error()))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
