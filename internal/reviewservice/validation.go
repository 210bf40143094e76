package reviewservice

import (
	"fmt"

	"github.com/sushihentaime/agencysite/internal/common"
)

func validateRating(v *common.Validator, rating int) {
	v.Check(rating >= MinRating && rating <= MaxRating, "rating", fmt.Sprintf("must be between %d and %d", MinRating, MaxRating))
}

func validateCreateReview(v *common.Validator, req *CreateReviewRequest) {
	v.CheckRequired(req.Name, "name", 100)
	v.CheckOptional(req.Company, "company", 100)
	v.CheckRequired(req.Comment, "comment", 2000)
	validateRating(v, req.Rating)
	v.CheckOptional(req.ServiceType, "service_type", 100)
	v.CheckID(req.UserID, "user_id")
}

func normalizeLimit(limit, fallback int) int {
	if limit < 1 {
		return fallback
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
