package comment

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"artikelku/internal/apperror"
	articlerepo "artikelku/internal/article/repository"
	"artikelku/internal/comment/model"
	"artikelku/internal/comment/repository"
	"artikelku/pkg/logger"
)

// Handler translates the nested /articles/{articleID}/comments routes.
// Every operation re-checks that the parent article exists before touching
// comment rows: once the article is gone its comments are unreachable,
// whether or not the rows physically remain.
type Handler struct {
	Articles *articlerepo.ArticleRepository
	Comments *repository.CommentRepository
}

func NewHandler(articles *articlerepo.ArticleRepository, comments *repository.CommentRepository) *Handler {
	return &Handler{Articles: articles, Comments: comments}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	articleID, ok := h.parentArticle(w, r)
	if !ok {
		return
	}

	comments, err := h.Comments.FindAllByArticleID(articleID)
	if err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}

	if err := render.RenderList(w, r, model.NewCommentListResponse(comments)); err != nil {
		logger.Sugar.Errorf("Failed to render comment list: %v", err)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	data := &model.CommentRequest{}
	if err := render.Bind(r, data); err != nil {
		apperror.Render(w, r, apperror.BadRequest(err))
		return
	}

	articleID, ok := h.parentArticle(w, r)
	if !ok {
		return
	}

	comment, err := h.Comments.Create(articleID, *data.Body)
	if err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, model.NewCommentResponse(comment)); err != nil {
		logger.Sugar.Errorf("Failed to render created comment: %v", err)
	}
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	articleID, ok := h.parentArticle(w, r)
	if !ok {
		return
	}
	id, ok := commentID(w, r)
	if !ok {
		return
	}

	comment, err := h.Comments.FindByArticleIDAndID(articleID, id)
	if err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}
	if comment == nil {
		apperror.Render(w, r, apperror.NotFound())
		return
	}

	if err := render.Render(w, r, model.NewCommentResponse(comment)); err != nil {
		logger.Sugar.Errorf("Failed to render comment %d: %v", id, err)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	data := &model.CommentRequest{}
	if err := render.Bind(r, data); err != nil {
		apperror.Render(w, r, apperror.BadRequest(err))
		return
	}

	articleID, ok := h.parentArticle(w, r)
	if !ok {
		return
	}
	id, ok := commentID(w, r)
	if !ok {
		return
	}

	existing, err := h.Comments.FindByArticleIDAndID(articleID, id)
	if err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}
	if existing == nil {
		apperror.Render(w, r, apperror.NotFound())
		return
	}

	if err := h.Comments.Update(articleID, id, *data.Body); err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}

	render.NoContent(w, r)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	articleID, ok := h.parentArticle(w, r)
	if !ok {
		return
	}
	id, ok := commentID(w, r)
	if !ok {
		return
	}

	existing, err := h.Comments.FindByArticleIDAndID(articleID, id)
	if err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}
	if existing == nil {
		apperror.Render(w, r, apperror.NotFound())
		return
	}

	if err := h.Comments.Delete(articleID, id); err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}

	render.NoContent(w, r)
}

// parentArticle enforces the article-existence precondition. On absence it
// renders 404 and reports false; no comment work happens after that.
func (h *Handler) parentArticle(w http.ResponseWriter, r *http.Request) (int, bool) {
	articleID, err := strconv.Atoi(chi.URLParam(r, "articleID"))
	if err != nil {
		apperror.Render(w, r, apperror.NotFound())
		return 0, false
	}

	article, err := h.Articles.FindByID(articleID)
	if err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return 0, false
	}
	if article == nil {
		apperror.Render(w, r, apperror.NotFound())
		return 0, false
	}

	return articleID, true
}

func commentID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "commentID"))
	if err != nil {
		apperror.Render(w, r, apperror.NotFound())
		return 0, false
	}

	return id, true
}
