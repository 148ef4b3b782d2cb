package domain

import (
	"regexp"
	"strings"
	"time"
)

// Community is a topical group whose content is gated by membership.
type Community struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Slug        string    `json:"slug" bson:"slug"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// CommunityStats holds the admin counters for a community.
type CommunityStats struct {
	Members int64 `json:"members"`
	Posts   int64 `json:"posts"`
}

// Membership is the join record that grants access to a community.
type Membership struct {
	CommunityID string    `json:"community_id" bson:"community_id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	JoinedAt    time.Time `json:"joined_at" bson:"joined_at"`
}

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugUnsafe   = regexp.MustCompile(`[^a-z0-9-]`)
	slugRedashes = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a URL-safe slug from a community name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugUnsafe.ReplaceAllString(s, "")
	s = slugRedashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidSlug reports whether s is already in canonical slug form.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
