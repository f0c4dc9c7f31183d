package model

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// Comment belongs to exactly one article; article_id is fixed at creation and
// never reassigned.
type Comment struct {
	ID        int    `json:"id"`
	ArticleID int    `json:"article_id"`
	Body      string `json:"body"`
}

// CommentRequest is the request payload for create and update. Body is a
// pointer so a missing key is rejected while an empty string is accepted.
type CommentRequest struct {
	Body *string `json:"body"`
}

func (c *CommentRequest) Bind(r *http.Request) error {
	if c.Body == nil {
		return errors.New("body is required")
	}

	return nil
}

// CommentResponse exposes only id and body; the article id is already part of
// the route.
type CommentResponse struct {
	ID   int    `json:"id"`
	Body string `json:"body"`
}

func NewCommentResponse(comment *Comment) *CommentResponse {
	return &CommentResponse{ID: comment.ID, Body: comment.Body}
}

func (rd *CommentResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewCommentListResponse(comments []Comment) []render.Renderer {
	list := []render.Renderer{}
	for i := range comments {
		list = append(list, NewCommentResponse(&comments[i]))
	}

	return list
}
