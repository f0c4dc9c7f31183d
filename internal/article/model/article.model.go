package model

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// Article is the data model. The id is assigned by the store and never taken
// from client input.
type Article struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ArticleRequest is the request payload for create and update. The fields are
// pointers so a key that is missing from the body is distinguishable from an
// empty string.
type ArticleRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// Bind runs after unmarshalling and rejects incomplete payloads before any
// repository call.
func (a *ArticleRequest) Bind(r *http.Request) error {
	if a.Title == nil || a.Body == nil {
		return errors.New("title and body are required")
	}
	if *a.Title == "" {
		return errors.New("title must not be empty")
	}

	return nil
}

// ArticleResponse is the response payload for a single article.
type ArticleResponse struct {
	*Article
}

func NewArticleResponse(article *Article) *ArticleResponse {
	return &ArticleResponse{Article: article}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewArticleListResponse(articles []Article) []render.Renderer {
	list := []render.Renderer{}
	for i := range articles {
		list = append(list, NewArticleResponse(&articles[i]))
	}

	return list
}
