package policy

import (
	"testing"

	"github.com/campuslink/campus-api/internal/core/domain"
)

func TestCanMutatePost(t *testing.T) {
	post := &domain.Post{ID: "p1", AuthorID: "alice"}

	if !CanMutatePost("alice", post) {
		t.Fatal("author must be able to mutate own post")
	}
	if CanMutatePost("bob", post) {
		t.Fatal("non-author must not mutate post")
	}
	if CanMutatePost("", &domain.Post{}) {
		t.Fatal("empty actor must never match an empty author")
	}
	if CanMutatePost("alice", nil) {
		t.Fatal("nil post must be denied")
	}
}

func TestCanMutateReferral(t *testing.T) {
	ref := &domain.Referral{ID: "r1", AlumnusID: "alum"}

	if !CanMutateReferral("alum", ref) {
		t.Fatal("owner must be able to mutate referral")
	}
	if CanMutateReferral("student", ref) {
		t.Fatal("non-owner must not mutate referral")
	}
}

func TestCanDecideApplication(t *testing.T) {
	ref := &domain.Referral{ID: "r1", AlumnusID: "alum"}
	app := &domain.Application{ID: "a1", ReferralID: "r1", StudentID: "s1"}

	if !CanDecideApplication("alum", app, ref) {
		t.Fatal("referral owner must be able to decide")
	}
	if CanDecideApplication("s1", app, ref) {
		t.Fatal("applicant must never decide own application")
	}
	if CanDecideApplication("s2", app, ref) {
		t.Fatal("unrelated user must not decide")
	}

	other := &domain.Referral{ID: "r2", AlumnusID: "alum"}
	if CanDecideApplication("alum", app, other) {
		t.Fatal("mismatched referral snapshot must be denied")
	}
}

func TestCanDeleteSkill(t *testing.T) {
	skill := &domain.Skill{ID: "k1", UserID: "alice", Name: "go"}

	if !CanDeleteSkill("alice", skill) {
		t.Fatal("owner must delete own skill")
	}
	if CanDeleteSkill("bob", skill) {
		t.Fatal("other users must not delete skill")
	}
}

func TestCanDeleteComment(t *testing.T) {
	c := &domain.Comment{ID: "c1", UserID: "alice"}

	if !CanDeleteComment("alice", c) {
		t.Fatal("author must delete own comment")
	}
	if CanDeleteComment("bob", c) {
		t.Fatal("other users must not delete comment")
	}
}
