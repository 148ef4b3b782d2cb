package domain

import "fmt"

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindUnauthenticated Kind = iota + 1
	KindForbidden
	KindInvalidArgument
	KindNotFound
	KindConflict
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error is a classified domain failure. Code is the stable string clients
// switch on; Message is safe to show to end users.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets a specific error match the root of its kind, so
// errors.Is(ErrDuplicateApplication, ErrConflict) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Code == t.Kind.String()
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Kind roots.
var (
	ErrUnauthenticated = newError(KindUnauthenticated, KindUnauthenticated.String(), "authentication required")
	ErrForbidden       = newError(KindForbidden, KindForbidden.String(), "access forbidden")
	ErrInvalidArgument = newError(KindInvalidArgument, KindInvalidArgument.String(), "invalid argument")
	ErrNotFound        = newError(KindNotFound, KindNotFound.String(), "not found")
	ErrConflict        = newError(KindConflict, KindConflict.String(), "conflict")
	ErrUpstream        = newError(KindUpstream, KindUpstream.String(), "internal server error")
)

var (
	ErrInvalidCredentials = newError(KindUnauthenticated, "invalid_credentials", "invalid email or password")
	ErrInvalidToken       = newError(KindUnauthenticated, "invalid_token", "invalid or expired token")

	ErrAdminRequired    = newError(KindForbidden, "admin_required", "only admins can perform this action")
	ErrAlumniRequired   = newError(KindForbidden, "alumni_required", "only alumni can post referrals")
	ErrStudentRequired  = newError(KindForbidden, "student_required", "only students can apply for referrals")
	ErrNotMember        = newError(KindForbidden, "not_member", "you must be a member of this community")
	ErrNotOwner         = newError(KindForbidden, "not_owner", "you can only modify your own resources")
	ErrNotReferralOwner = newError(KindForbidden, "not_referral_owner", "you can only manage applications for your own referrals")

	ErrInvalidRole      = newError(KindInvalidArgument, "invalid_role", "invalid role, must be: student, alumni, or admin")
	ErrInvalidStatus    = newError(KindInvalidArgument, "invalid_status", "invalid status, must be: accepted or rejected")
	ErrInvalidPostType  = newError(KindInvalidArgument, "invalid_post_type", "invalid post type, must be: resource, update, question, or achievement")
	ErrMissingField     = newError(KindInvalidArgument, "missing_field", "missing required field")
	ErrInvalidSlug      = newError(KindInvalidArgument, "invalid_slug", "slug must be lowercase letters, digits, and dashes")
	ErrInvalidOAuthFlow = newError(KindInvalidArgument, "invalid_oauth_state", "invalid or expired sign-in state")
	ErrWeakPassword     = newError(KindInvalidArgument, "weak_password", "password must be at least 8 characters")

	ErrUserNotFound        = newError(KindNotFound, "user_not_found", "user not found")
	ErrProfileNotFound     = newError(KindNotFound, "profile_not_found", "profile not found")
	ErrCommunityNotFound   = newError(KindNotFound, "community_not_found", "community not found")
	ErrPostNotFound        = newError(KindNotFound, "post_not_found", "post not found")
	ErrCommentNotFound     = newError(KindNotFound, "comment_not_found", "comment not found")
	ErrReferralNotFound    = newError(KindNotFound, "referral_not_found", "referral not found")
	ErrApplicationNotFound = newError(KindNotFound, "application_not_found", "application not found")
	ErrSkillNotFound       = newError(KindNotFound, "skill_not_found", "skill not found")
	ErrProviderDisabled    = newError(KindNotFound, "provider_disabled", "sign-in provider is not configured")

	ErrDuplicateApplication   = newError(KindConflict, "duplicate_application", "you have already applied for this referral")
	ErrAlreadyMember          = newError(KindConflict, "already_member", "you are already a member of this community")
	ErrAlreadyLiked           = newError(KindConflict, "already_liked", "post already liked")
	ErrInvalidStateTransition = newError(KindConflict, "invalid_state_transition", "invalid status transition")
	ErrReferralClosed         = newError(KindConflict, "referral_closed", "this referral is closed to new applications")
	ErrSlugTaken              = newError(KindConflict, "slug_taken", "a community with this slug already exists")
	ErrEmailTaken             = newError(KindConflict, "email_taken", "email already registered")
)

// Upstream wraps a storage or dependency failure. The cause stays in the
// chain for logging; callers only ever see ErrUpstream's message.
func Upstream(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, cause)
}

// Missing returns an invalid-argument error naming the absent field.
func Missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

// Invalid returns an invalid-argument error with a caller-facing detail.
func Invalid(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, detail)
}
