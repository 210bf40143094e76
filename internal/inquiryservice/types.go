package inquiryservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/agencysite/internal/common"
)

type ContactSubmission struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type ProjectInquiry struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Company     *string   `json:"company"`
	ProjectType string    `json:"project_type"`
	Budget      *string   `json:"budget"`
	Timeline    *string   `json:"timeline"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type JobApplication struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone"`
	Position    string    `json:"position"`
	ResumeURL   string    `json:"resume_url"`
	CoverLetter *string   `json:"cover_letter"`
	CreatedAt   time.Time `json:"created_at"`
}

type InquiryModel struct {
	db *sql.DB
}

type InquiryService struct {
	m      *InquiryModel
	mb     common.MessageProducer
	cache  *common.Cache
	logger *slog.Logger
}
