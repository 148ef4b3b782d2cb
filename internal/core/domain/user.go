package domain

import "time"

// User is an account held by the identity provider.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash,omitempty"`
	Provider     string    `json:"provider" bson:"provider"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// Identity is the resolved caller of an operation. It is threaded explicitly
// into every core call; nothing reads it from ambient state.
type Identity struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// Profile is the public, user-editable part of an account.
type Profile struct {
	UserID        string    `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Bio           string    `json:"bio,omitempty" bson:"bio,omitempty"`
	Title         string    `json:"title,omitempty" bson:"title,omitempty"`
	GithubURL     string    `json:"github_url,omitempty" bson:"github_url,omitempty"`
	LinkedinURL   string    `json:"linkedin_url,omitempty" bson:"linkedin_url,omitempty"`
	ProfilePicURL string    `json:"profile_pic_url,omitempty" bson:"profile_pic_url,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// ProfilePatch carries optional profile edits; nil fields are left untouched.
type ProfilePatch struct {
	Name          *string
	Bio           *string
	Title         *string
	GithubURL     *string
	LinkedinURL   *string
	ProfilePicURL *string
}

// Apply copies the set fields of p onto profile.
func (p ProfilePatch) Apply(profile *Profile) {
	if p.Name != nil {
		profile.Name = *p.Name
	}
	if p.Bio != nil {
		profile.Bio = *p.Bio
	}
	if p.Title != nil {
		profile.Title = *p.Title
	}
	if p.GithubURL != nil {
		profile.GithubURL = *p.GithubURL
	}
	if p.LinkedinURL != nil {
		profile.LinkedinURL = *p.LinkedinURL
	}
	if p.ProfilePicURL != nil {
		profile.ProfilePicURL = *p.ProfilePicURL
	}
}

// Skill is a free-text tag owned by a user.
type Skill struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Name      string    `json:"skill_name" bson:"skill_name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
