package inquiryservice

import (
	"regexp"

	"github.com/sushihentaime/agencysite/internal/common"
)

var URLRX = regexp.MustCompile(`^https?://[^\s]+$`)

func validateSender(v *common.Validator, name, email string, phone *string) {
	v.CheckRequired(name, "name", 100)
	v.CheckEmail(email)
	v.CheckOptional(phone, "phone", 30)
}

func validateContact(v *common.Validator, c *ContactSubmission) {
	validateSender(v, c.Name, c.Email, c.Phone)
	v.CheckOptional(&c.Subject, "subject", 200)
	v.CheckRequired(c.Message, "message", 5000)
}

func validateProjectInquiry(v *common.Validator, p *ProjectInquiry) {
	validateSender(v, p.Name, p.Email, nil)
	v.CheckOptional(p.Company, "company", 100)
	v.CheckRequired(p.ProjectType, "project_type", 100)
	v.CheckOptional(p.Budget, "budget", 50)
	v.CheckOptional(p.Timeline, "timeline", 50)
	v.CheckRequired(p.Description, "description", 5000)
}

func validateJobApplication(v *common.Validator, j *JobApplication) {
	validateSender(v, j.Name, j.Email, j.Phone)
	v.CheckRequired(j.Position, "position", 100)
	v.CheckRequired(j.ResumeURL, "resume_url", 500)
	v.Check(URLRX.MatchString(j.ResumeURL), "resume_url", "must be a valid http or https URL")
	v.CheckOptional(j.CoverLetter, "cover_letter", 5000)
}

func normalizePage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
