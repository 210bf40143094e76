package common

// EntityKind names one of the tables the admin dashboard aggregates.
type EntityKind string

const (
	KindBlogs              EntityKind = "blogs"
	KindReviews            EntityKind = "reviews"
	KindContactSubmissions EntityKind = "contact_submissions"
	KindProjectInquiries   EntityKind = "project_inquiries"
	KindJobApplications    EntityKind = "job_applications"
)

// EntityKinds lists the tracked kinds in dashboard display order.
var EntityKinds = []EntityKind{
	KindBlogs,
	KindReviews,
	KindContactSubmissions,
	KindProjectInquiries,
	KindJobApplications,
}

func (k EntityKind) Valid() bool {
	for _, kind := range EntityKinds {
		if k == kind {
			return true
		}
	}
	return false
}
