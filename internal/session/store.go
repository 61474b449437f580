package session

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/coworkhq/cowork/internal/models"
)

//go:embed schema.sql
var schema string

// Durable keys. The token is the only thing trusted for authorization;
// the serialized profile is a rendering fallback.
const (
	keyToken = "access_token"
	keyUser  = "user"
)

// Session is the client-held proof of authentication plus the cached
// profile. Invariant: Token absent implies User absent.
type Session struct {
	Token string
	User  *models.User
}

// Store holds the current session in memory and mirrors it to a durable
// key/value slot so a restart can attempt restoration. Every mutation
// replaces the session wholesale.
type Store struct {
	db *sql.DB

	mu  sync.RWMutex
	cur Session
}

// Open opens (creating if needed) the session store at the given path
// and loads any persisted session into memory.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the current session
func (s *Store) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Set replaces the session with the given token and profile. An empty
// token is equivalent to Clear.
func (s *Store) Set(token string, user *models.User) error {
	if token == "" {
		return s.Clear()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.setValue(keyToken, token); err != nil {
		return err
	}
	if user != nil {
		b, err := json.Marshal(user)
		if err != nil {
			return err
		}
		if err := s.setValue(keyUser, string(b)); err != nil {
			return err
		}
	} else {
		if err := s.deleteValue(keyUser); err != nil {
			return err
		}
	}

	s.cur = Session{Token: token, User: user}
	return nil
}

// Clear destroys the session, in memory and on disk
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deleteValue(keyToken); err != nil {
		return err
	}
	if err := s.deleteValue(keyUser); err != nil {
		return err
	}

	s.cur = Session{}
	return nil
}

func (s *Store) load() error {
	token, err := s.getValue(keyToken)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	var user *models.User
	if raw, err := s.getValue(keyUser); err == nil && raw != "" {
		var u models.User
		if json.Unmarshal([]byte(raw), &u) == nil {
			user = &u
		}
	}

	s.cur = Session{Token: token, User: user}
	return nil
}

func (s *Store) getValue(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM session WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *Store) setValue(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (s *Store) deleteValue(key string) error {
	_, err := s.db.Exec("DELETE FROM session WHERE key = ?", key)
	return err
}
