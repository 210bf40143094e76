package inquiryservice

import (
	"context"
	"database/sql"

	"github.com/sushihentaime/agencysite/internal/common"
	"github.com/sushihentaime/agencysite/internal/userservice"
)

func newInquiryModel(db *sql.DB) *InquiryModel {
	return &InquiryModel{db: db}
}

func (m *InquiryModel) insertContact(ctx context.Context, c *ContactSubmission) error {
	query := `
		INSERT INTO contact_submissions (name, email, phone, subject, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return m.db.QueryRowContext(ctx, query, c.Name, c.Email, c.Phone, c.Subject, c.Message).Scan(&c.ID, &c.CreatedAt)
}

func (m *InquiryModel) insertProjectInquiry(ctx context.Context, p *ProjectInquiry) error {
	query := `
		INSERT INTO project_inquiries (name, email, company, project_type, budget, timeline, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return m.db.QueryRowContext(ctx, query, p.Name, p.Email, p.Company, p.ProjectType, p.Budget, p.Timeline, p.Description).Scan(&p.ID, &p.CreatedAt)
}

func (m *InquiryModel) insertJobApplication(ctx context.Context, j *JobApplication) error {
	query := `
		INSERT INTO job_applications (name, email, phone, position, resume_url, cover_letter)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return m.db.QueryRowContext(ctx, query, j.Name, j.Email, j.Phone, j.Position, j.ResumeURL, j.CoverLetter).Scan(&j.ID, &j.CreatedAt)
}

// guardedList runs query in a read-only transaction that first checks the actor holds
// admin:moderate. scan is called once per row.
func (m *InquiryModel) guardedList(ctx context.Context, actorID int, query string, limit, offset int, scan func(*sql.Rows) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var allowed bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_permissions
			WHERE user_id = $1 AND permission = $2
		)`, actorID, userservice.PermissionModerate).Scan(&allowed)
	if err != nil {
		return err
	}
	if !allowed {
		return common.ErrForbidden
	}

	rows, err := tx.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return tx.Commit()
}

func (m *InquiryModel) listContacts(ctx context.Context, actorID, limit, offset int) ([]ContactSubmission, error) {
	query := `
		SELECT id, name, email, phone, subject, message, created_at
		FROM contact_submissions
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	out := []ContactSubmission{}
	err := m.guardedList(ctx, actorID, query, limit, offset, func(rows *sql.Rows) error {
		var c ContactSubmission
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message, &c.CreatedAt); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (m *InquiryModel) listProjectInquiries(ctx context.Context, actorID, limit, offset int) ([]ProjectInquiry, error) {
	query := `
		SELECT id, name, email, company, project_type, budget, timeline, description, created_at
		FROM project_inquiries
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	out := []ProjectInquiry{}
	err := m.guardedList(ctx, actorID, query, limit, offset, func(rows *sql.Rows) error {
		var p ProjectInquiry
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Company, &p.ProjectType, &p.Budget, &p.Timeline, &p.Description, &p.CreatedAt); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (m *InquiryModel) listJobApplications(ctx context.Context, actorID, limit, offset int) ([]JobApplication, error) {
	query := `
		SELECT id, name, email, phone, position, resume_url, cover_letter, created_at
		FROM job_applications
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	out := []JobApplication{}
	err := m.guardedList(ctx, actorID, query, limit, offset, func(rows *sql.Rows) error {
		var j JobApplication
		if err := rows.Scan(&j.ID, &j.Name, &j.Email, &j.Phone, &j.Position, &j.ResumeURL, &j.CoverLetter, &j.CreatedAt); err != nil {
			return err
		}
		out = append(out, j)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
