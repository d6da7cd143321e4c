// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the importer's state in SQLite: published posts
// with their metadata and taxonomy, the imported-article index that keeps
// runs idempotent, and saved scheduled searches.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// ErrAlreadyImported is returned by ImportPost when the PMID is already in
// the import index; the losing post is rolled back.
var ErrAlreadyImported = errors.New("article already imported")

// Store manages the importer SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at path and ensures the schema.
// The busy timeout lets concurrent import transactions wait on each other
// instead of failing.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// DB exposes the underlying handle so sibling components (the response
// cache) can share one database file.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			excerpt TEXT,
			status TEXT NOT NULL DEFAULT 'draft',
			author_id INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS post_meta (
			post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			key TEXT NOT NULL,
			value TEXT,
			PRIMARY KEY (post_id, key)
		)`,
		`CREATE TABLE IF NOT EXISTS post_terms (
			post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			taxonomy TEXT NOT NULL,
			term TEXT NOT NULL,
			PRIMARY KEY (post_id, taxonomy, term)
		)`,
		`CREATE TABLE IF NOT EXISTS imported_articles (
			pmid TEXT PRIMARY KEY,
			post_id INTEGER NOT NULL REFERENCES posts(id),
			title TEXT,
			authors TEXT,
			abstract TEXT,
			publication_date TEXT,
			journal TEXT,
			mesh_terms TEXT,
			imported_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scheduled_searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			query TEXT NOT NULL,
			result_count INTEGER NOT NULL DEFAULT 10,
			date_range TEXT,
			schedule TEXT NOT NULL,
			last_run TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Post is one stored post with its metadata and taxonomy assignments.
type Post struct {
	ID         int64
	Title      string
	Content    string
	Excerpt    string
	Status     string
	AuthorID   int64
	Meta       map[string]string
	Categories []string
	Tags       []string
}

// SavePost inserts the post with its metadata and terms in one transaction
// and returns the new post ID.
func (s *Store) SavePost(ctx context.Context, p Post) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	postID, err := insertPost(ctx, tx, p)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing post: %w", err)
	}
	return postID, nil
}

// insertPost writes the post with its metadata and terms inside tx.
func insertPost(ctx context.Context, tx *sql.Tx, p Post) (int64, error) {
	if p.Status == "" {
		p.Status = "draft"
	}
	if p.AuthorID <= 0 {
		p.AuthorID = 1
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO posts (title, content, excerpt, status, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Content, p.Excerpt, p.Status, p.AuthorID, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting post: %w", err)
	}
	postID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading post id: %w", err)
	}

	for key, value := range p.Meta {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_meta (post_id, key, value) VALUES (?, ?, ?)
			 ON CONFLICT(post_id, key) DO UPDATE SET value=excluded.value`,
			postID, key, value,
		); err != nil {
			return 0, fmt.Errorf("inserting meta %s: %w", key, err)
		}
	}

	if err := insertTerms(ctx, tx, postID, "category", p.Categories); err != nil {
		return 0, err
	}
	if err := insertTerms(ctx, tx, postID, "tag", p.Tags); err != nil {
		return 0, err
	}
	return postID, nil
}

func insertTerms(ctx context.Context, tx *sql.Tx, postID int64, taxonomy string, terms []string) error {
	for _, term := range terms {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO post_terms (post_id, taxonomy, term) VALUES (?, ?, ?)`,
			postID, taxonomy, term,
		); err != nil {
			return fmt.Errorf("inserting %s term %s: %w", taxonomy, term, err)
		}
	}
	return nil
}

// GetPost loads one post with its metadata and terms.
func (s *Store) GetPost(ctx context.Context, id int64) (Post, error) {
	var p Post
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, excerpt, status, author_id FROM posts WHERE id = ?`, id,
	).Scan(&p.ID, &p.Title, &p.Content, &p.Excerpt, &p.Status, &p.AuthorID)
	if err != nil {
		return Post{}, fmt.Errorf("loading post %d: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM post_meta WHERE post_id = ?`, id)
	if err != nil {
		return Post{}, fmt.Errorf("loading post meta: %w", err)
	}
	defer rows.Close()
	p.Meta = make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Post{}, fmt.Errorf("scanning post meta: %w", err)
		}
		p.Meta[key] = value
	}
	if err := rows.Err(); err != nil {
		return Post{}, fmt.Errorf("reading post meta: %w", err)
	}

	termRows, err := s.db.QueryContext(ctx,
		`SELECT taxonomy, term FROM post_terms WHERE post_id = ? ORDER BY rowid`, id)
	if err != nil {
		return Post{}, fmt.Errorf("loading post terms: %w", err)
	}
	defer termRows.Close()
	for termRows.Next() {
		var taxonomy, term string
		if err := termRows.Scan(&taxonomy, &term); err != nil {
			return Post{}, fmt.Errorf("scanning post terms: %w", err)
		}
		switch taxonomy {
		case "category":
			p.Categories = append(p.Categories, term)
		case "tag":
			p.Tags = append(p.Tags, term)
		}
	}
	if err := termRows.Err(); err != nil {
		return Post{}, fmt.Errorf("reading post terms: %w", err)
	}
	return p, nil
}

// UpdatePostContent replaces a post's body and merges new metadata, used by
// the enhancement pass.
func (s *Store) UpdatePostContent(ctx context.Context, id int64, content string, meta map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE posts SET content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("updating post %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating post %d: %w", id, sql.ErrNoRows)
	}

	for key, value := range meta {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_meta (post_id, key, value) VALUES (?, ?, ?)
			 ON CONFLICT(post_id, key) DO UPDATE SET value=excluded.value`,
			id, key, value,
		); err != nil {
			return fmt.Errorf("updating meta %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// IsImported reports whether an article with this PMID was imported before.
func (s *Store) IsImported(ctx context.Context, pmid string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM imported_articles WHERE pmid = ?`, pmid,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking import index: %w", err)
	}
	return true, nil
}

// ImportPost persists the post and its import-index row in one transaction,
// making the index insert the at-most-once point: if the PMID is already
// indexed the whole transaction is rolled back and ErrAlreadyImported is
// returned, so a lost race never leaves an orphan post behind.
func (s *Store) ImportPost(ctx context.Context, p Post, a types.ImportedArticle) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	postID, err := insertPost(ctx, tx, p)
	if err != nil {
		return 0, err
	}

	authorsJSON, _ := json.Marshal(a.Authors)
	termsJSON, _ := json.Marshal(a.MeSHTerms)
	importedAt := a.ImportedAt
	if importedAt.IsZero() {
		importedAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO imported_articles
			(pmid, post_id, title, authors, abstract, publication_date, journal, mesh_terms, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.PMID, postID, a.Title, string(authorsJSON), a.Abstract,
		a.PublicationDate, a.Journal, string(termsJSON),
		importedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("recording import of %s: %w", a.PMID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("importing %s: %w", a.PMID, ErrAlreadyImported)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import of %s: %w", a.PMID, err)
	}
	return postID, nil
}

// ListImported returns the import index, newest first.
func (s *Store) ListImported(ctx context.Context) ([]types.ImportedArticle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pmid, post_id, title, authors, abstract, publication_date, journal, mesh_terms, imported_at
		 FROM imported_articles ORDER BY imported_at DESC, pmid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing imports: %w", err)
	}
	defer rows.Close()

	var articles []types.ImportedArticle
	for rows.Next() {
		var a types.ImportedArticle
		var authorsJSON, termsJSON, importedAt string
		if err := rows.Scan(&a.PMID, &a.PostID, &a.Title, &authorsJSON, &a.Abstract,
			&a.PublicationDate, &a.Journal, &termsJSON, &importedAt); err != nil {
			return nil, fmt.Errorf("scanning import row: %w", err)
		}
		json.Unmarshal([]byte(authorsJSON), &a.Authors)
		json.Unmarshal([]byte(termsJSON), &a.MeSHTerms)
		if t, err := time.Parse(time.RFC3339, importedAt); err == nil {
			a.ImportedAt = t
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading import rows: %w", err)
	}
	return articles, nil
}

// StatusFor returns the post status for the auto-publish setting.
func StatusFor(autoPublish bool) string {
	if autoPublish {
		return "publish"
	}
	return "draft"
}
