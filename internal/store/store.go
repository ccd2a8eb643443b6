// Package store persists user accounts and saved notice analyses in
// SQLite. Owner scoping is enforced at the query level: every read and
// delete of a document is keyed by both document id and owner id.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	email         TEXT NOT NULL UNIQUE,
	full_name     TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	phone         TEXT NOT NULL DEFAULT '',
	dob           TEXT NOT NULL DEFAULT '',
	gender        TEXT NOT NULL DEFAULT '',
	address       TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     INTEGER NOT NULL,
	filename    TEXT NOT NULL,
	notice_type TEXT NOT NULL DEFAULT '',
	severity    TEXT NOT NULL DEFAULT '',
	explanation TEXT NOT NULL DEFAULT '{}',
	metadata    TEXT NOT NULL DEFAULT '{}',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_user ON documents(user_id, created_at DESC);
`

type User struct {
	ID           int64  `db:"id" json:"id"`
	Email        string `db:"email" json:"email"`
	FullName     string `db:"full_name" json:"full_name"`
	PasswordHash string `db:"password_hash" json:"-"`
	Phone        string `db:"phone" json:"phone,omitempty"`
	DOB          string `db:"dob" json:"dob,omitempty"`
	Gender       string `db:"gender" json:"gender,omitempty"`
	Address      string `db:"address" json:"address,omitempty"`
	CreatedAt    string `db:"created_at" json:"created_at"`
	UpdatedAt    string `db:"updated_at" json:"-"`
}

type Document struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"-"`
	Filename    string          `db:"filename" json:"filename"`
	NoticeType  string          `db:"notice_type" json:"notice_type"`
	Severity    string          `db:"severity" json:"severity"`
	Explanation json.RawMessage `db:"explanation" json:"explanation"`
	Metadata    json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt   string          `db:"created_at" json:"created_at"`
	UpdatedAt   string          `db:"updated_at" json:"-"`
}

type Store struct {
	db *sqlx.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (s *Store) CreateUser(u User) (User, error) {
	ts := now()
	u.CreatedAt = ts
	u.UpdatedAt = ts
	res, err := s.db.NamedExec(`INSERT INTO users
		(email, full_name, password_hash, phone, dob, gender, address, created_at, updated_at)
		VALUES (:email, :full_name, :password_hash, :phone, :dob, :gender, :address, :created_at, :updated_at)`, u)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("insert user id: %w", err)
	}
	return u, nil
}

func (s *Store) UserByEmail(email string) (User, error) {
	var u User
	err := s.db.Get(&u, `SELECT * FROM users WHERE email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateProfile applies the non-empty fields of patch to the user row and
// returns the updated user.
func (s *Store) UpdateProfile(userID int64, patch map[string]string) (User, error) {
	allowed := map[string]bool{"full_name": true, "phone": true, "dob": true, "gender": true, "address": true}
	sets := []string{}
	args := []any{}
	for _, col := range []string{"full_name", "phone", "dob", "gender", "address"} {
		v, ok := patch[col]
		if !ok || !allowed[col] {
			continue
		}
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if len(sets) == 0 {
		return User{}, errors.New("no fields to update")
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now(), userID)
	if _, err := s.db.Exec(`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return User{}, fmt.Errorf("update profile: %w", err)
	}
	var u User
	if err := s.db.Get(&u, `SELECT * FROM users WHERE id = ?`, userID); err != nil {
		return User{}, fmt.Errorf("reload user: %w", err)
	}
	return u, nil
}

func (s *Store) UpdatePassword(userID int64, passwordHash string) error {
	if _, err := s.db.Exec(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, now(), userID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *Store) SaveDocument(d Document) (Document, error) {
	ts := now()
	d.CreatedAt = ts
	d.UpdatedAt = ts
	if len(d.Explanation) == 0 {
		d.Explanation = json.RawMessage(`{}`)
	}
	if len(d.Metadata) == 0 {
		d.Metadata = json.RawMessage(`{}`)
	}
	res, err := s.db.Exec(`INSERT INTO documents
		(user_id, filename, notice_type, severity, explanation, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.UserID, d.Filename, d.NoticeType, d.Severity, string(d.Explanation), string(d.Metadata), d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	d.ID, err = res.LastInsertId()
	if err != nil {
		return Document{}, fmt.Errorf("insert document id: %w", err)
	}
	return d, nil
}

// History lists the user's saved documents, newest first.
func (s *Store) History(userID int64) ([]Document, error) {
	var docs []Document
	err := s.db.Select(&docs, `SELECT * FROM documents WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// DocumentByID fetches one saved document, scoped to its owner.
func (s *Store) DocumentByID(id, userID int64) (Document, error) {
	var d Document
	err := s.db.Get(&d, `SELECT * FROM documents WHERE id = ? AND user_id = ?`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

// DeleteDocument removes a document only when it belongs to userID.
func (s *Store) DeleteDocument(id, userID int64) error {
	res, err := s.db.Exec(`DELETE FROM documents WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
