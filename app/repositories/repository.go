package repositories

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// DuplicateError reports which unique field collided on insert.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " already in use"
}

// Is lets errors.Is(err, ErrDuplicate) match any DuplicateError.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// Store owns the badger database and the repositories built on it.
type Store struct {
	db       *badger.DB
	mutex    sync.RWMutex
	dbPath   string
	isTestDB bool

	Posts       *BadgerPostRepository
	Users       *BadgerUserRepository
	Revocations *BadgerRevocationRepository
}

// Open opens the badger database at path. An empty path opens an in-memory database.
func Open(path string, logger *slog.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger.With("component", "badger")})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return db, nil
}

// NewStore opens a store at path. An empty path uses a unique temporary
// directory that is removed again on Close.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	isTest := false
	if path == "" {
		tempPath, err := os.MkdirTemp("", "blog_db_")
		if err != nil {
			return nil, fmt.Errorf("error creating temp dir: %w", err)
		}
		path = tempPath
		isTest = true
	}
	db, err := Open(path, logger)
	if err != nil {
		return nil, err
	}
	store := NewStoreWithDB(db)
	store.dbPath = path
	store.isTestDB = isTest
	return store, nil
}

// NewStoreWithDB wires the repositories onto an already opened database.
func NewStoreWithDB(db *badger.DB) *Store {
	return &Store{
		db:          db,
		Posts:       NewBadgerPostRepository(db),
		Users:       NewBadgerUserRepository(db),
		Revocations: NewBadgerRevocationRepository(db),
	}
}

// DB exposes the underlying database.
func (s *Store) DB() *badger.DB {
	return s.db
}

func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	err := s.db.Close()
	if err != nil {
		return err
	}

	// Clean up test database
	if s.isTestDB {
		err = os.RemoveAll(s.dbPath)
		if err != nil {
			return fmt.Errorf("failed to cleanup test database: %w", err)
		}
	}
	return nil
}

// Backup writes a full backup of the database to w.
func (s *Store) Backup(w io.Writer) (uint64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.db.Backup(w, 0)
}

// Restore loads a backup produced by Backup into the database.
func (s *Store) Restore(r io.Reader) (err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic occurred during restore: %v", rec)
		}
	}()
	return s.db.Load(r, 4)
}

// Clear drops every key in the database.
func (s *Store) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.DropAll()
}

// badgerLogger routes badger's printf-style logging into slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
