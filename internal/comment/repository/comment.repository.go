package repository

import (
	"database/sql"
	"errors"

	"artikelku/internal/comment/model"
	"artikelku/pkg/logger"
)

// ErrNoRowsAffected reports a scoped mutation that matched nothing after the
// handler's existence check had passed.
var ErrNoRowsAffected = errors.New("no rows affected")

// CommentRepository filters every lookup and mutation by both article_id and
// id. A mismatch on either yields absent, never a partial match.
type CommentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

func (r *CommentRepository) FindAllByArticleID(articleID int) ([]model.Comment, error) {
	rows, err := r.DB.Query(
		`SELECT id, article_id, body FROM comments WHERE article_id = $1`,
		articleID,
	)
	if err != nil {
		logger.Sugar.Errorf("Failed to list comments for article %d: %v", articleID, err)
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.Body); err != nil {
			logger.Sugar.Errorf("Failed to scan comment row: %v", err)
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		logger.Sugar.Errorf("Failed reading comment rows: %v", err)
		return nil, err
	}

	return comments, nil
}

// FindByArticleIDAndID returns (nil, nil) when no row matches the pair. A
// comment id that exists under another article is absent here, not a match.
func (r *CommentRepository) FindByArticleIDAndID(articleID, id int) (*model.Comment, error) {
	var c model.Comment
	err := r.DB.QueryRow(
		`SELECT id, article_id, body FROM comments WHERE article_id = $1 AND id = $2`,
		articleID, id,
	).Scan(&c.ID, &c.ArticleID, &c.Body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get comment %d for article %d: %v", id, articleID, err)
		return nil, err
	}

	return &c, nil
}

// Create stores the given article_id verbatim; the parent-existence
// precondition belongs to the handler.
func (r *CommentRepository) Create(articleID int, body string) (*model.Comment, error) {
	var c model.Comment
	err := r.DB.QueryRow(
		`INSERT INTO comments (article_id, body) VALUES ($1, $2) RETURNING id, article_id, body`,
		articleID, body,
	).Scan(&c.ID, &c.ArticleID, &c.Body)
	if err != nil {
		logger.Sugar.Errorf("Failed to create comment for article %d: %v", articleID, err)
		return nil, err
	}

	return &c, nil
}

func (r *CommentRepository) Update(articleID, id int, body string) error {
	result, err := r.DB.Exec(
		`UPDATE comments SET body = $1 WHERE article_id = $2 AND id = $3`,
		body, articleID, id,
	)
	if err != nil {
		logger.Sugar.Errorf("Failed to update comment %d for article %d: %v", id, articleID, err)
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

func (r *CommentRepository) Delete(articleID, id int) error {
	result, err := r.DB.Exec(
		`DELETE FROM comments WHERE article_id = $1 AND id = $2`,
		articleID, id,
	)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete comment %d for article %d: %v", id, articleID, err)
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
