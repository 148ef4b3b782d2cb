package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/campus-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. Each one enforces the same uniqueness rules
// as the real stores and hands out clones.
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var errStorage = errors.New("storage unavailable")

type stubAccountRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

// seed registers bare users so role and profile lookups find them.
func (r *stubAccountRepo) seed(ids ...string) *stubAccountRepo {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		email := id + "@campus.test"
		r.byID[id] = &domain.User{ID: id, Email: email, Provider: domain.ProviderPassword}
		r.byEmail[email] = id
	}
	return r
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: map[string]*domain.User{}, byEmail: map[string]string{}}
}

func (r *stubAccountRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrEmailTaken
	}
	clone := *u
	r.byID[u.ID] = &clone
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		delete(r.byEmail, u.Email)
		delete(r.byID, id)
	}
	return nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type stubRevocations struct {
	revoked  map[string]time.Duration
	checkErr error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: map[string]time.Duration{}}
}

func (s *stubRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	s.revoked[id] = ttl
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	if s.checkErr != nil {
		return false, s.checkErr
	}
	_, ok := s.revoked[id]
	return ok, nil
}

type stubStates struct {
	saved map[string]time.Duration
}

func newStubStates() *stubStates { return &stubStates{saved: map[string]time.Duration{}} }

func (s *stubStates) Save(_ context.Context, state string, ttl time.Duration) error {
	s.saved[state] = ttl
	return nil
}

func (s *stubStates) Consume(_ context.Context, state string) (bool, error) {
	_, ok := s.saved[state]
	delete(s.saved, state)
	return ok, nil
}

type stubRoleRepo struct {
	rows      map[string]*domain.RoleAssignment
	findErr   error
	upsertErr error
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{rows: map[string]*domain.RoleAssignment{}}
}

func (r *stubRoleRepo) set(userID string, role domain.Role) {
	r.rows[userID] = &domain.RoleAssignment{UserID: userID, Role: role}
}

func (r *stubRoleRepo) Find(_ context.Context, userID string) (*domain.RoleAssignment, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.rows[userID]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (r *stubRoleRepo) Upsert(_ context.Context, a *domain.RoleAssignment) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	clone := *a
	r.rows[a.UserID] = &clone
	return nil
}

func (r *stubRoleRepo) InsertIfAbsent(_ context.Context, a *domain.RoleAssignment) error {
	if _, ok := r.rows[a.UserID]; ok {
		return nil
	}
	clone := *a
	r.rows[a.UserID] = &clone
	return nil
}

func (r *stubRoleRepo) ListUserIDsByRole(_ context.Context, role domain.Role) ([]string, error) {
	var ids []string
	for id, a := range r.rows {
		if a.Role == role {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type stubCommunityRepo struct {
	byID map[string]*domain.Community
}

func newStubCommunityRepo() *stubCommunityRepo {
	return &stubCommunityRepo{byID: map[string]*domain.Community{}}
}

func (r *stubCommunityRepo) Create(_ context.Context, c *domain.Community) error {
	for _, existing := range r.byID {
		if existing.Slug == c.Slug {
			return domain.ErrSlugTaken
		}
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCommunityRepo) Update(_ context.Context, c *domain.Community) error {
	for id, existing := range r.byID {
		if id != c.ID && existing.Slug == c.Slug {
			return domain.ErrSlugTaken
		}
	}
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrCommunityNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCommunityRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *stubCommunityRepo) FindByID(_ context.Context, id string) (*domain.Community, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCommunityNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCommunityRepo) FindBySlug(_ context.Context, slug string) (*domain.Community, error) {
	for _, c := range r.byID {
		if c.Slug == slug {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCommunityNotFound
}

func (r *stubCommunityRepo) List(_ context.Context) ([]*domain.Community, error) {
	out := make([]*domain.Community, 0, len(r.byID))
	for _, c := range r.byID {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

type stubMembershipRepo struct {
	rows []domain.Membership
	// skipPrecheck makes Exists report false, simulating a join racing past the check.
	skipPrecheck bool
	createErr    error
}

func (r *stubMembershipRepo) Create(_ context.Context, m *domain.Membership) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, row := range r.rows {
		if row.CommunityID == m.CommunityID && row.UserID == m.UserID {
			return domain.ErrAlreadyMember
		}
	}
	r.rows = append(r.rows, *m)
	return nil
}

func (r *stubMembershipRepo) Exists(_ context.Context, communityID, userID string) (bool, error) {
	if r.skipPrecheck {
		return false, nil
	}
	for _, row := range r.rows {
		if row.CommunityID == communityID && row.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubMembershipRepo) ListByCommunity(_ context.Context, communityID string) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for _, row := range r.rows {
		if row.CommunityID == communityID {
			clone := row
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubMembershipRepo) ListByUser(_ context.Context, userID string) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for _, row := range r.rows {
		if row.UserID == userID {
			clone := row
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubMembershipRepo) CountByCommunity(ctx context.Context, communityID string) (int64, error) {
	list, _ := r.ListByCommunity(ctx, communityID)
	return int64(len(list)), nil
}

type stubPostRepo struct {
	byID    map[string]*domain.Post
	order   []string
	listErr error
}

func newStubPostRepo() *stubPostRepo { return &stubPostRepo{byID: map[string]*domain.Post{}} }

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	clone := *p
	r.byID[p.ID] = &clone
	r.order = append(r.order, p.ID)
	return nil
}

func (r *stubPostRepo) Update(_ context.Context, p *domain.Post) error {
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrPostNotFound
	}
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

// ListByCommunity returns insertion order; the feed is responsible for sorting.
func (r *stubPostRepo) ListByCommunity(_ context.Context, communityID string) ([]*domain.Post, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Post
	for _, id := range r.order {
		if p, ok := r.byID[id]; ok && p.CommunityID == communityID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubPostRepo) CountByCommunity(ctx context.Context, communityID string) (int64, error) {
	list, _ := r.ListByCommunity(ctx, communityID)
	return int64(len(list)), nil
}

type stubCommentRepo struct {
	byID  map[string]*domain.Comment
	order []string
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{byID: map[string]*domain.Comment{}}
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	clone := *c
	r.byID[c.ID] = &clone
	r.order = append(r.order, c.ID)
	return nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCommentRepo) ListByPost(_ context.Context, postID string) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, id := range r.order {
		if c, ok := r.byID[id]; ok && c.PostID == postID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubCommentRepo) CountByPost(ctx context.Context, postID string) (int64, error) {
	list, _ := r.ListByPost(ctx, postID)
	return int64(len(list)), nil
}

type stubLikeRepo struct {
	rows map[[2]string]domain.Like
	// staleExists forces Exists to report false, as when a concurrent toggle
	// already inserted the row.
	staleExists bool
}

func newStubLikeRepo() *stubLikeRepo { return &stubLikeRepo{rows: map[[2]string]domain.Like{}} }

func (r *stubLikeRepo) Insert(_ context.Context, l *domain.Like) error {
	key := [2]string{l.PostID, l.UserID}
	if _, ok := r.rows[key]; ok {
		return domain.ErrAlreadyLiked
	}
	r.rows[key] = *l
	return nil
}

func (r *stubLikeRepo) Delete(_ context.Context, postID, userID string) (bool, error) {
	key := [2]string{postID, userID}
	_, ok := r.rows[key]
	delete(r.rows, key)
	return ok, nil
}

func (r *stubLikeRepo) Exists(_ context.Context, postID, userID string) (bool, error) {
	if r.staleExists {
		return false, nil
	}
	_, ok := r.rows[[2]string{postID, userID}]
	return ok, nil
}

func (r *stubLikeRepo) CountByPost(_ context.Context, postID string) (int64, error) {
	var n int64
	for key := range r.rows {
		if key[0] == postID {
			n++
		}
	}
	return n, nil
}

type stubReferralRepo struct {
	byID map[string]*domain.Referral
}

func newStubReferralRepo() *stubReferralRepo {
	return &stubReferralRepo{byID: map[string]*domain.Referral{}}
}

func (r *stubReferralRepo) Create(_ context.Context, ref *domain.Referral) error {
	clone := *ref
	r.byID[ref.ID] = &clone
	return nil
}

func (r *stubReferralRepo) FindByID(_ context.Context, id string) (*domain.Referral, error) {
	ref, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrReferralNotFound
	}
	clone := *ref
	return &clone, nil
}

func (r *stubReferralRepo) ListByStatus(_ context.Context, status domain.ReferralStatus) ([]*domain.Referral, error) {
	var out []*domain.Referral
	for _, ref := range r.byID {
		if ref.Status == status {
			clone := *ref
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubReferralRepo) ListByAlumnus(_ context.Context, alumnusID string) ([]*domain.Referral, error) {
	var out []*domain.Referral
	for _, ref := range r.byID {
		if ref.AlumnusID == alumnusID {
			clone := *ref
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubReferralRepo) UpdateStatus(_ context.Context, id string, from, to domain.ReferralStatus, at time.Time) (bool, error) {
	ref, ok := r.byID[id]
	if !ok || ref.Status != from {
		return false, nil
	}
	ref.Status, ref.UpdatedAt = to, at
	return true, nil
}

type stubApplicationRepo struct {
	byID map[string]*domain.Application
	// hidePairs makes FindByReferralAndStudent miss, simulating a racing apply.
	hidePairs bool
}

func newStubApplicationRepo() *stubApplicationRepo {
	return &stubApplicationRepo{byID: map[string]*domain.Application{}}
}

func (r *stubApplicationRepo) Create(_ context.Context, a *domain.Application) error {
	for _, existing := range r.byID {
		if existing.ReferralID == a.ReferralID && existing.StudentID == a.StudentID {
			return domain.ErrDuplicateApplication
		}
	}
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *stubApplicationRepo) FindByID(_ context.Context, id string) (*domain.Application, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubApplicationRepo) FindByReferralAndStudent(_ context.Context, referralID, studentID string) (*domain.Application, error) {
	if !r.hidePairs {
		for _, a := range r.byID {
			if a.ReferralID == referralID && a.StudentID == studentID {
				clone := *a
				return &clone, nil
			}
		}
	}
	return nil, domain.ErrApplicationNotFound
}

func (r *stubApplicationRepo) ListByReferral(_ context.Context, referralID string) ([]*domain.Application, error) {
	var out []*domain.Application
	for _, a := range r.byID {
		if a.ReferralID == referralID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubApplicationRepo) ListByStudent(_ context.Context, studentID string) ([]*domain.Application, error) {
	var out []*domain.Application
	for _, a := range r.byID {
		if a.StudentID == studentID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubApplicationRepo) UpdateStatus(_ context.Context, id string, from, to domain.ApplicationStatus, at time.Time) (bool, error) {
	a, ok := r.byID[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status, a.UpdatedAt = to, at
	return true, nil
}

type stubProfileRepo struct {
	byID      map[string]*domain.Profile
	createErr error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byID: map[string]*domain.Profile{}}
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *p
	r.byID[p.UserID] = &clone
	return nil
}

func (r *stubProfileRepo) Update(_ context.Context, p *domain.Profile) error {
	if _, ok := r.byID[p.UserID]; !ok {
		return domain.ErrProfileNotFound
	}
	clone := *p
	r.byID[p.UserID] = &clone
	return nil
}

func (r *stubProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) ListByIDs(_ context.Context, ids []string) ([]*domain.Profile, error) {
	var out []*domain.Profile
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubSkillRepo struct {
	byID  map[string]*domain.Skill
	order []string
}

func newStubSkillRepo() *stubSkillRepo { return &stubSkillRepo{byID: map[string]*domain.Skill{}} }

func (r *stubSkillRepo) Create(_ context.Context, s *domain.Skill) error {
	clone := *s
	r.byID[s.ID] = &clone
	r.order = append(r.order, s.ID)
	return nil
}

func (r *stubSkillRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *stubSkillRepo) FindByID(_ context.Context, id string) (*domain.Skill, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSkillNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSkillRepo) ListByUser(_ context.Context, userID string) ([]*domain.Skill, error) {
	var out []*domain.Skill
	for _, id := range r.order {
		if s, ok := r.byID[id]; ok && s.UserID == userID {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	submitted []string
	decided   []string
}

func (n *recordingNotifier) ApplicationSubmitted(_ context.Context, app *domain.Application, _ *domain.Referral) {
	n.submitted = append(n.submitted, app.ID)
}

func (n *recordingNotifier) ApplicationDecided(_ context.Context, app *domain.Application, _ *domain.Referral) {
	n.decided = append(n.decided, app.ID+":"+string(app.Status))
}

func who(userID string) domain.Identity {
	return domain.Identity{UserID: userID, TokenID: "tok-" + userID, ExpiresAt: time.Now().Add(time.Hour)}
}
