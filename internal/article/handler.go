package article

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"artikelku/internal/apperror"
	"artikelku/internal/article/model"
	"artikelku/internal/article/repository"
	"artikelku/pkg/logger"
)

// Handler translates the /articles routes into repository calls. It is the
// sole place article outcomes get classified into the error taxonomy.
type Handler struct {
	Articles *repository.ArticleRepository
}

func NewHandler(articles *repository.ArticleRepository) *Handler {
	return &Handler{Articles: articles}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	articles, err := h.Articles.FindAll()
	if err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}

	if err := render.RenderList(w, r, model.NewArticleListResponse(articles)); err != nil {
		logger.Sugar.Errorf("Failed to render article list: %v", err)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	data := &model.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		apperror.Render(w, r, apperror.BadRequest(err))
		return
	}

	article, err := h.Articles.Create(*data.Title, *data.Body)
	if err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, model.NewArticleResponse(article)); err != nil {
		logger.Sugar.Errorf("Failed to render created article: %v", err)
	}
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(w, r)
	if !ok {
		return
	}

	article, err := h.Articles.FindByID(id)
	if err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}
	if article == nil {
		apperror.Render(w, r, apperror.NotFound())
		return
	}

	if err := render.Render(w, r, model.NewArticleResponse(article)); err != nil {
		logger.Sugar.Errorf("Failed to render article %d: %v", id, err)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(w, r)
	if !ok {
		return
	}

	data := &model.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		apperror.Render(w, r, apperror.BadRequest(err))
		return
	}

	existing, err := h.Articles.FindByID(id)
	if err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}
	if existing == nil {
		apperror.Render(w, r, apperror.NotFound())
		return
	}

	if err := h.Articles.Update(id, *data.Title, *data.Body); err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}

	render.NoContent(w, r)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(w, r)
	if !ok {
		return
	}

	existing, err := h.Articles.FindByID(id)
	if err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}
	if existing == nil {
		apperror.Render(w, r, apperror.NotFound())
		return
	}

	if err := h.Articles.Delete(id); err != nil {
		apperror.Render(w, r, apperror.Internal(err))
		return
	}

	render.NoContent(w, r)
}

// articleID parses the path parameter. A non-numeric id names nothing, so it
// renders the same 404 as an absent row.
func articleID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "articleID"))
	if err != nil {
		apperror.Render(w, r, apperror.NotFound())
		return 0, false
	}

	return id, true
}
