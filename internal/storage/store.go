package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	bolt "go.etcd.io/bbolt"

	"github.com/pders01/gifr/internal/debuglog"
)

var (
	favoritesBucket = []byte("favorites")
	metaBucket      = []byte("metadata")

	lastTermKey = []byte("last_term")
)

// ErrNotFound is returned when removing a favorite that does not exist.
var ErrNotFound = errors.New("favorite not found")

// DefaultLockWait is how long NewStore waits for another gifr process to
// release the database.
const DefaultLockWait = 1 * time.Second

const lockAttemptTimeout = 100 * time.Millisecond

type Store struct {
	db  *bolt.DB
	now func() time.Time
}

func NewStore(dbPath string) (*Store, error) {
	return NewStoreWithTimeout(dbPath, DefaultLockWait)
}

// NewStoreWithTimeout opens the database, retrying with exponential backoff
// while the file lock is held elsewhere (e.g. a running TUI while the CLI
// edits favorites). lockWait bounds the total wait.
func NewStoreWithTimeout(dbPath string, lockWait time.Duration) (*Store, error) {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.Multiplier = 1.5
	b.MaxElapsedTime = lockWait

	var db *bolt.DB
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		var openErr error
		db, openErr = bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: lockAttemptTimeout})
		if openErr == nil {
			return nil
		}
		if errors.Is(openErr, bolt.ErrTimeout) {
			debuglog.Debugf("database %s locked, attempt %d", dbPath, attempt)
			return openErr
		}
		return backoff.Permanent(openErr)
	}, b)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{favoritesBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Favorites returns all favorites ordered by term.
func (s *Store) Favorites() ([]*Favorite, error) {
	var favs []*Favorite
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(favoritesBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var fav Favorite
			if err := json.Unmarshal(v, &fav); err != nil {
				return err
			}
			favs = append(favs, &fav)
			return nil
		})
	})
	sort.Slice(favs, func(i, j int) bool {
		return favs[i].Term < favs[j].Term
	})
	return favs, err
}

// ListFavorites returns the favorite terms in sorted order.
func (s *Store) ListFavorites() ([]string, error) {
	favs, err := s.Favorites()
	if err != nil {
		return nil, err
	}
	terms := make([]string, len(favs))
	for i, f := range favs {
		terms[i] = f.Term
	}
	return terms, nil
}

// AddFavorite saves term. Adding an existing term keeps its AddedAt.
func (s *Store) AddFavorite(term string) error {
	if term == "" {
		return fmt.Errorf("favorite term cannot be empty")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(favoritesBucket)
		if b.Get([]byte(term)) != nil {
			return nil
		}
		data, err := json.Marshal(&Favorite{Term: term, AddedAt: s.now()})
		if err != nil {
			return err
		}
		return b.Put([]byte(term), data)
	})
}

func (s *Store) RemoveFavorite(term string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(favoritesBucket)
		if b.Get([]byte(term)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(term))
	})
}

// TouchFavorite records that term was just loaded, if it is a favorite.
func (s *Store) TouchFavorite(term string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(favoritesBucket)
		data := b.Get([]byte(term))
		if data == nil {
			return nil
		}
		var fav Favorite
		if err := json.Unmarshal(data, &fav); err != nil {
			return err
		}
		fav.LastUsed = s.now()
		data, err := json.Marshal(&fav)
		if err != nil {
			return err
		}
		return b.Put([]byte(term), data)
	})
}

// LastTerm returns the term of the previous session, or "" if none.
func (s *Store) LastTerm() (string, error) {
	var term string
	err := s.db.View(func(tx *bolt.Tx) error {
		term = string(tx.Bucket(metaBucket).Get(lastTermKey))
		return nil
	})
	return term, err
}

func (s *Store) SetLastTerm(term string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put(lastTermKey, []byte(term))
	})
}
