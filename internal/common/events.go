package common

import "time"

// UserCreatedEvent is published on UserCreatedKey after registration.
type UserCreatedEvent struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ReviewCreatedEvent is published on ReviewCreatedKey after a review is stored.
type ReviewCreatedEvent struct {
	ReviewID  int       `json:"review_id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// InquiryReceivedEvent is published on InquiryReceivedKey for every public form submission.
type InquiryReceivedEvent struct {
	Kind    EntityKind `json:"kind"`
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Summary string     `json:"summary"`
}
