package article_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artikelku/monitor"
	"artikelku/pkg/logger"
	"artikelku/router"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*httptest.Server, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hub := monitor.NewHub(nil)
	go hub.Run()

	server := httptest.NewServer(router.Setup(db, hub))
	t.Cleanup(server.Close)

	return server, mock
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(raw)
}

func TestListArticles(t *testing.T) {
	server, mock := newTestServer(t)

	mock.ExpectQuery("SELECT id, title, body FROM articles").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body"}).
			AddRow(1, "first", "hello").
			AddRow(2, "second", "world"))

	status, body := do(t, http.MethodGet, server.URL+"/articles", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id":1,"title":"first","body":"hello"},{"id":2,"title":"second","body":"world"}]`, body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListArticlesEmpty(t *testing.T) {
	server, mock := newTestServer(t)

	mock.ExpectQuery("SELECT id, title, body FROM articles").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body"}))

	status, body := do(t, http.MethodGet, server.URL+"/articles", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, body)
}

func TestListArticlesStoreFault(t *testing.T) {
	server, mock := newTestServer(t)

	mock.ExpectQuery("SELECT id, title, body FROM articles").
		WillReturnError(errors.New("connection reset"))

	status, body := do(t, http.MethodGet, server.URL+"/articles", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"code":"INTERNAL_SERVER_ERROR","message":"Internal Server Error"}`, body)
}

func TestCreateArticle(t *testing.T) {
	server, mock := newTestServer(t)

	mock.ExpectQuery("INSERT INTO articles").
		WithArgs("A", "B").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body"}).AddRow(1, "A", "B"))

	status, body := do(t, http.MethodPost, server.URL+"/articles", `{"title":"A","body":"B"}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"id":1,"title":"A","body":"B"}`, body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateArticleMissingField(t *testing.T) {
	server, _ := newTestServer(t)

	status, body := do(t, http.MethodPost, server.URL+"/articles", `{"title":"A"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"code":"BAD_REQUEST","message":"Bad Request"}`, body)
}

func TestCreateArticleEmptyTitle(t *testing.T) {
	server, _ := newTestServer(t)

	status, _ := do(t, http.MethodPost, server.URL+"/articles", `{"title":"","body":"B"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCreateArticleMalformedJSON(t *testing.T) {
	server, _ := newTestServer(t)

	status, body := do(t, http.MethodPost, server.URL+"/articles", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"code":"BAD_REQUEST","message":"Bad Request"}`, body)
}

func TestShowArticle(t *testing.T) {
	server, mock := newTestServer(t)

	mock.ExpectQuery("SELECT id, title, body FROM articles WHERE id = \\$1").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body"}).AddRow(1, "A", "B"))

	status, body := do(t, http.MethodGet, server.URL+"/articles/1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":1,"title":"A","body":"B"}`, body)
}

func TestShowArticleNotFound(t *testing.T) {
	server, mock := newTestServer(t)

	mock.ExpectQuery("SELECT id, title, body FROM articles WHERE id = \\$1").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body"}))

	status, body := do(t, http.MethodGet, server.URL+"/articles/99", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"code":"NOT_FOUND","message":"Not Found"}`, body)
}

func TestShowArticleNonNumericID(t *testing.T) {
	server, _ := newTestServer(t)

	status, body := do(t, http.MethodGet, server.URL+"/articles/abc", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"code":"NOT_FOUND","message":"Not Found"}`, body)
}

func TestUpdateArticle(t *testing.T) {
	server, mock := newTestServer(t)

	mock.ExpectQuery("SELECT id, title, body FROM articles WHERE id = \\$1").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body"}).AddRow(1, "A", "B"))
	mock.ExpectExec("UPDATE articles SET title = \\$1, body = \\$2 WHERE id = \\$3").
		WithArgs("A2", "B2", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	status, body := do(t, http.MethodPatch, server.URL+"/articles/1", `{"title":"A2","body":"B2"}`)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateArticleNotFound(t *testing.T) {
	server, mock := newTestServer(t)

	mock.ExpectQuery("SELECT id, title, body FROM articles WHERE id = \\$1").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body"}))

	status, body := do(t, http.MethodPatch, server.URL+"/articles/99", `{"title":"A","body":"B"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"code":"NOT_FOUND","message":"Not Found"}`, body)
}

// The row can vanish between the existence check and the mutation. That maps
// to a server fault, never to a second not-found.
func TestUpdateArticleRowVanished(t *testing.T) {
	server, mock := newTestServer(t)

	mock.ExpectQuery("SELECT id, title, body FROM articles WHERE id = \\$1").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body"}).AddRow(1, "A", "B"))
	mock.ExpectExec("UPDATE articles SET title = \\$1, body = \\$2 WHERE id = \\$3").
		WithArgs("A2", "B2", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	status, body := do(t, http.MethodPatch, server.URL+"/articles/1", `{"title":"A2","body":"B2"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"code":"INTERNAL_SERVER_ERROR","message":"Internal Server Error"}`, body)
}

func TestDeleteArticleTwice(t *testing.T) {
	server, mock := newTestServer(t)

	mock.ExpectQuery("SELECT id, title, body FROM articles WHERE id = \\$1").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body"}).AddRow(1, "A", "B"))
	mock.ExpectExec("DELETE FROM articles WHERE id = \\$1").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	status, body := do(t, http.MethodDelete, server.URL+"/articles/1", "")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, body)

	mock.ExpectQuery("SELECT id, title, body FROM articles WHERE id = \\$1").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body"}))

	status, body = do(t, http.MethodDelete, server.URL+"/articles/1", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"code":"NOT_FOUND","message":"Not Found"}`, body)
	assert.NoError(t, mock.ExpectationsWereMet())
}
