package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/campus-api/internal/api/metrics"
	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

// PostHandler handles posts, comments, likes, and the community feed.
type PostHandler struct {
	posts ports.PostService
	feed  ports.FeedService
}

func NewPostHandler(posts ports.PostService, feed ports.FeedService) *PostHandler {
	return &PostHandler{posts: posts, feed: feed}
}

type postRequest struct {
	Title    string `json:"title" validate:"max=200"`
	Content  string `json:"content" validate:"max=10000"`
	Type     string `json:"type"`
	MediaURL string `json:"media_url" validate:"omitempty,url"`
}

func (r postRequest) input() ports.PostInput {
	return ports.PostInput{Title: r.Title, Content: r.Content, Type: r.Type, MediaURL: r.MediaURL}
}

type commentRequest struct {
	Content string `json:"content" validate:"max=5000"`
}

type likeResponse struct {
	Action     domain.LikeAction `json:"action"`
	Liked      bool              `json:"liked"`
	LikesCount int64             `json:"likes_count"`
}

// Feed handles GET /v1/communities/:id/feed.
//
// @Summary      Community feed, newest first (members only)
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Community id"
// @Success      200  {array}   domain.FeedItem
// @Failure      403  {object}  errorDoc
// @Router       /v1/communities/{id}/feed [get]
func (h *PostHandler) Feed(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	items, err := h.feed.GetFeed(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, items)
}

// Create handles POST /v1/communities/:id/posts.
//
// @Summary      Create a post (members only)
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Community id"
// @Param        body  body      postRequest  true  "Post"
// @Success      201   {object}  domain.Post
// @Failure      400   {object}  errorDoc
// @Failure      403   {object}  errorDoc
// @Router       /v1/communities/{id}/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req postRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.posts.CreatePost(c.Request().Context(), identity, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, post)
}

// Update handles PUT /v1/posts/:id.
//
// @Summary      Edit an own post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Post id"
// @Param        body  body      postRequest  true  "Fields to change"
// @Success      200   {object}  domain.Post
// @Failure      403   {object}  errorDoc
// @Failure      404   {object}  errorDoc
// @Router       /v1/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req postRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.posts.UpdatePost(c.Request().Context(), identity, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, post)
}

// Delete handles DELETE /v1/posts/:id.
//
// @Summary      Delete an own post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  string  true  "Post id"
// @Success      204
// @Failure      403  {object}  errorDoc
// @Failure      404  {object}  errorDoc
// @Router       /v1/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.posts.DeletePost(c.Request().Context(), identity, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleLike handles POST /v1/posts/:id/like.
//
// @Summary      Like or unlike a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  likeResponse
// @Failure      403  {object}  errorDoc
// @Failure      404  {object}  errorDoc
// @Router       /v1/posts/{id}/like [post]
func (h *PostHandler) ToggleLike(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	result, err := h.feed.ToggleLike(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.PostLikesTotal.WithLabelValues(string(result.Action)).Inc()
	return respond(c, http.StatusOK, likeResponse{
		Action:     result.Action,
		Liked:      result.Liked,
		LikesCount: result.LikesCount,
	})
}

// Comments handles GET /v1/posts/:id/comments.
//
// @Summary      List comments, oldest first
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {array}   domain.Comment
// @Failure      403  {object}  errorDoc
// @Router       /v1/posts/{id}/comments [get]
func (h *PostHandler) Comments(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	comments, err := h.posts.ListComments(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, comments)
}

// AddComment handles POST /v1/posts/:id/comments.
//
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Post id"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  domain.Comment
// @Failure      400   {object}  errorDoc
// @Failure      403   {object}  errorDoc
// @Router       /v1/posts/{id}/comments [post]
func (h *PostHandler) AddComment(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.posts.AddComment(c.Request().Context(), identity, c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, comment)
}

// DeleteComment handles DELETE /v1/comments/:id.
//
// @Summary      Delete an own comment
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  string  true  "Comment id"
// @Success      204
// @Failure      403  {object}  errorDoc
// @Failure      404  {object}  errorDoc
// @Router       /v1/comments/{id} [delete]
func (h *PostHandler) DeleteComment(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.posts.DeleteComment(c.Request().Context(), identity, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
