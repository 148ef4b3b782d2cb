package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campuslink/campus-api/internal/core/domain"
)

func TestFeedService_GetFeed_NonMemberForbidden(t *testing.T) {
	f := newContentFixture()
	f.post(t, "alice", "secret")

	items, err := f.feedSvc.GetFeed(context.Background(), who("mallory"), "c1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if items != nil {
		t.Errorf("no post data may be returned, got %d items", len(items))
	}
}

func TestFeedService_GetFeed_Unauthenticated(t *testing.T) {
	f := newContentFixture()

	_, err := f.feedSvc.GetFeed(context.Background(), domain.Identity{}, "c1")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestFeedService_GetFeed_NewestFirstWithCounters(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"p-a", "p-b", "p-c"} {
		_ = f.posts.Create(ctx, &domain.Post{ID: id, CommunityID: "c1", AuthorID: "alice", CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	// Same timestamp as p-c, inserted later.
	_ = f.posts.Create(ctx, &domain.Post{ID: "p-d", CommunityID: "c1", AuthorID: "bob", CreatedAt: base.Add(2 * time.Minute)})

	_ = f.likes.Insert(ctx, &domain.Like{PostID: "p-b", UserID: "alice"})
	_ = f.likes.Insert(ctx, &domain.Like{PostID: "p-b", UserID: "bob"})
	_ = f.comments.Create(ctx, &domain.Comment{ID: "cm1", PostID: "p-b", UserID: "bob"})

	items, err := f.feedSvc.GetFeed(ctx, who("bob"), "c1")
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}

	want := []string{"p-d", "p-c", "p-b", "p-a"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}

	b := items[2]
	if b.LikesCount != 2 || b.CommentsCount != 1 || !b.ViewerHasLiked {
		t.Errorf("unexpected counters for p-b: %+v", b)
	}
	if items[0].ViewerHasLiked || items[0].LikesCount != 0 {
		t.Errorf("unexpected counters for p-d: %+v", items[0])
	}
}

func TestFeedService_GetFeed_StorageFailureIsUpstream(t *testing.T) {
	f := newContentFixture()
	f.posts.listErr = errStorage

	_, err := f.feedSvc.GetFeed(context.Background(), who("alice"), "c1")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream, got %v", err)
	}
}

func TestFeedService_ToggleLike_TwiceReturnsToBaseline(t *testing.T) {
	f := newContentFixture()
	p := f.post(t, "alice", "likeable")
	ctx := context.Background()
	_ = f.likes.Insert(ctx, &domain.Like{PostID: p.ID, UserID: "alice"})

	first, err := f.feedSvc.ToggleLike(ctx, who("bob"), p.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.Liked || first.Action != domain.ActionLiked || first.LikesCount != 2 {
		t.Errorf("first toggle: unexpected %+v", first)
	}

	second, err := f.feedSvc.ToggleLike(ctx, who("bob"), p.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Liked || second.Action != domain.ActionUnliked || second.LikesCount != 1 {
		t.Errorf("second toggle: unexpected %+v", second)
	}
}

func TestFeedService_ToggleLike_ConcurrentInsertIsNotDoubled(t *testing.T) {
	f := newContentFixture()
	p := f.post(t, "alice", "racy")
	ctx := context.Background()
	_ = f.likes.Insert(ctx, &domain.Like{PostID: p.ID, UserID: "bob"})
	f.likes.staleExists = true

	res, err := f.feedSvc.ToggleLike(ctx, who("bob"), p.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !res.Liked || res.LikesCount != 1 {
		t.Errorf("expected a single stored like, got %+v", res)
	}
}

func TestFeedService_ToggleLike_MembersOnly(t *testing.T) {
	f := newContentFixture()
	p := f.post(t, "alice", "members")

	_, err := f.feedSvc.ToggleLike(context.Background(), who("mallory"), p.ID)
	if !errors.Is(err, domain.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
	if n, _ := f.likes.CountByPost(context.Background(), p.ID); n != 0 {
		t.Errorf("denied toggle must not write, got %d likes", n)
	}
}
