package domain

import "time"

// PostType categorises community posts.
type PostType string

const (
	PostResource    PostType = "resource"
	PostUpdate      PostType = "update"
	PostQuestion    PostType = "question"
	PostAchievement PostType = "achievement"
)

// ParsePostType validates a raw post type.
func ParsePostType(s string) (PostType, error) {
	switch t := PostType(s); t {
	case PostResource, PostUpdate, PostQuestion, PostAchievement:
		return t, nil
	}
	return "", ErrInvalidPostType
}

type Post struct {
	ID          string    `json:"id" bson:"_id"`
	CommunityID string    `json:"community_id" bson:"community_id"`
	AuthorID    string    `json:"author_id" bson:"author_id"`
	Title       string    `json:"title" bson:"title"`
	Content     string    `json:"content" bson:"content"`
	Type        PostType  `json:"type" bson:"type"`
	MediaURL    string    `json:"media_url,omitempty" bson:"media_url,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// FeedItem is a post annotated with counters derived at read time.
type FeedItem struct {
	Post
	LikesCount     int64 `json:"likes_count"`
	CommentsCount  int64 `json:"comments_count"`
	ViewerHasLiked bool  `json:"viewer_has_liked"`
}

type Comment struct {
	ID        string    `json:"id" bson:"_id"`
	PostID    string    `json:"post_id" bson:"post_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Like is the fact that a user has liked a post, unique per pair.
type Like struct {
	PostID    string    `json:"post_id" bson:"post_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// LikeAction is the outcome of a toggle.
type LikeAction string

const (
	ActionLiked   LikeAction = "liked"
	ActionUnliked LikeAction = "unliked"
)
