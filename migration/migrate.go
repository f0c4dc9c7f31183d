package migration

import (
	"database/sql"

	"artikelku/pkg/logger"
)

// The comments table carries article_id as a plain column, no foreign key.
// Deleting an article leaves its comment rows in place; they stay unreachable
// because every nested route checks the parent first.
var upStatements = []string{
	`CREATE TABLE IF NOT EXISTS articles (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		body TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id SERIAL PRIMARY KEY,
		article_id INTEGER NOT NULL,
		body TEXT NOT NULL
	)`,
}

var downStatements = []string{
	`DROP TABLE IF EXISTS comments`,
	`DROP TABLE IF EXISTS articles`,
}

// Up creates the articles and comments tables.
func Up(db *sql.DB) error {
	for _, stmt := range upStatements {
		if _, err := db.Exec(stmt); err != nil {
			logger.Sugar.Errorf("Migration failed: %v", err)
			return err
		}
	}
	logger.Sugar.Info("Migration applied")

	return nil
}

// Down drops both tables.
func Down(db *sql.DB) error {
	for _, stmt := range downStatements {
		if _, err := db.Exec(stmt); err != nil {
			logger.Sugar.Errorf("Rollback failed: %v", err)
			return err
		}
	}
	logger.Sugar.Info("Rollback applied")

	return nil
}
