package domain

import "time"

// ReferralStatus is the lifecycle state of a referral posting.
type ReferralStatus string

const (
	ReferralOpen   ReferralStatus = "open"
	ReferralClosed ReferralStatus = "closed"
)

// ApplicationStatus is the lifecycle state of an application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

var referralTransitions = map[ReferralStatus][]ReferralStatus{
	ReferralOpen: {ReferralClosed},
}

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending: {ApplicationAccepted, ApplicationRejected},
}

// CanTransitionTo reports whether a referral may move from s to next.
func (s ReferralStatus) CanTransitionTo(next ReferralStatus) bool {
	for _, allowed := range referralTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether an application may move from s to next.
// Accepted and rejected are terminal.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseDecision validates the target status of a decision.
func ParseDecision(s string) (ApplicationStatus, error) {
	switch st := ApplicationStatus(s); st {
	case ApplicationAccepted, ApplicationRejected:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Referral is a job posting owned by the alumnus who created it.
type Referral struct {
	ID           string         `json:"id" bson:"_id"`
	AlumnusID    string         `json:"alumnus_id" bson:"alumnus_id"`
	JobTitle     string         `json:"job_title" bson:"job_title"`
	Company      string         `json:"company" bson:"company"`
	Location     string         `json:"location,omitempty" bson:"location,omitempty"`
	Description  string         `json:"description" bson:"description"`
	ReferralLink string         `json:"referral_link,omitempty" bson:"referral_link,omitempty"`
	Status       ReferralStatus `json:"status" bson:"status"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" bson:"updated_at"`
}

// Application is a student's request against a referral. At most one exists
// per (referral, student) pair.
type Application struct {
	ID         string            `json:"id" bson:"_id"`
	ReferralID string            `json:"referral_id" bson:"referral_id"`
	StudentID  string            `json:"student_id" bson:"student_id"`
	Message    string            `json:"message" bson:"message"`
	ResumeURL  string            `json:"resume_url,omitempty" bson:"resume_url,omitempty"`
	Status     ApplicationStatus `json:"status" bson:"status"`
	CreatedAt  time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at" bson:"updated_at"`
}
