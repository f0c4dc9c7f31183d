package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"artikelku/internal/article"
	articlerepo "artikelku/internal/article/repository"
	"artikelku/internal/comment"
	commentrepo "artikelku/internal/comment/repository"
	"artikelku/middleware"
	"artikelku/monitor"
	"artikelku/pkg/logger"
)

// Setup wires the resource handlers onto the router with the shared
// middleware stack. The DB handle and hub are constructed once at startup and
// injected here; nothing reconfigures them per request.
func Setup(db *sql.DB, hub *monitor.Hub) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Tracer)
	r.Use(chimiddleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(middleware.CaptureErrors(hub))

	articles := articlerepo.NewArticleRepository(db)
	comments := commentrepo.NewCommentRepository(db)
	articleHandler := article.NewHandler(articles)
	commentHandler := comment.NewHandler(articles, comments)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("Hello world!")); err != nil {
			logger.Sugar.Errorf("Failed to write greeting: %v", err)
		}
	})

	r.Route("/articles", func(r chi.Router) {
		r.Get("/", articleHandler.Index)
		r.Post("/", articleHandler.Create)

		r.Route("/{articleID}", func(r chi.Router) {
			r.Get("/", articleHandler.Show)
			r.Patch("/", articleHandler.Update)
			r.Delete("/", articleHandler.Delete)

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", commentHandler.Index)
				r.Post("/", commentHandler.Create)

				r.Route("/{commentID}", func(r chi.Router) {
					r.Get("/", commentHandler.Show)
					r.Patch("/", commentHandler.Update)
					r.Delete("/", commentHandler.Delete)
				})
			})
		})
	})

	return r
}
