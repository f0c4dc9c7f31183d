package repository

import (
	"database/sql"
	"errors"

	"artikelku/internal/article/model"
	"artikelku/pkg/logger"
)

// ErrNoRowsAffected reports a conditional mutation that matched nothing. The
// handler has already established existence, so this means the row vanished
// between the check and the mutation.
var ErrNoRowsAffected = errors.New("no rows affected")

type ArticleRepository struct {
	DB *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{DB: db}
}

func (r *ArticleRepository) FindAll() ([]model.Article, error) {
	rows, err := r.DB.Query(`SELECT id, title, body FROM articles`)
	if err != nil {
		logger.Sugar.Errorf("Failed to list articles: %v", err)
		return nil, err
	}
	defer rows.Close()

	articles := []model.Article{}
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Body); err != nil {
			logger.Sugar.Errorf("Failed to scan article row: %v", err)
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		logger.Sugar.Errorf("Failed reading article rows: %v", err)
		return nil, err
	}

	return articles, nil
}

// FindByID returns (nil, nil) when no row matches. Only genuine store faults
// come back as errors; classification is the caller's job.
func (r *ArticleRepository) FindByID(id int) (*model.Article, error) {
	var a model.Article
	err := r.DB.QueryRow(`SELECT id, title, body FROM articles WHERE id = $1`, id).
		Scan(&a.ID, &a.Title, &a.Body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get article %d: %v", id, err)
		return nil, err
	}

	return &a, nil
}

func (r *ArticleRepository) Create(title, body string) (*model.Article, error) {
	var a model.Article
	err := r.DB.QueryRow(
		`INSERT INTO articles (title, body) VALUES ($1, $2) RETURNING id, title, body`,
		title, body,
	).Scan(&a.ID, &a.Title, &a.Body)
	if err != nil {
		logger.Sugar.Errorf("Failed to create article: %v", err)
		return nil, err
	}

	return &a, nil
}

func (r *ArticleRepository) Update(id int, title, body string) error {
	result, err := r.DB.Exec(
		`UPDATE articles SET title = $1, body = $2 WHERE id = $3`,
		title, body, id,
	)
	if err != nil {
		logger.Sugar.Errorf("Failed to update article %d: %v", id, err)
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (r *ArticleRepository) Delete(id int) error {
	result, err := r.DB.Exec(`DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete article %d: %v", id, err)
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRowsAffected
	}

	return nil
}
