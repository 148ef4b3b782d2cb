// Package policy holds the ownership rules. Every check is a pure function of
// the actor and a snapshot of the resource, so callers must load the current
// row before asking.
package policy

import "github.com/campuslink/campus-api/internal/core/domain"

func CanMutatePost(userID string, post *domain.Post) bool {
	return post != nil && userID != "" && userID == post.AuthorID
}

func CanDeleteComment(userID string, comment *domain.Comment) bool {
	return comment != nil && userID != "" && userID == comment.UserID
}

func CanMutateReferral(userID string, referral *domain.Referral) bool {
	return referral != nil && userID != "" && userID == referral.AlumnusID
}

// CanDecideApplication is true only for the owner of the parent referral.
// The applicant can never transition their own application.
func CanDecideApplication(userID string, app *domain.Application, referral *domain.Referral) bool {
	if app == nil || referral == nil || app.ReferralID != referral.ID {
		return false
	}
	return CanMutateReferral(userID, referral)
}

func CanDeleteSkill(userID string, skill *domain.Skill) bool {
	return skill != nil && userID != "" && userID == skill.UserID
}
