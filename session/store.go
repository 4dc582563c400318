package session

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"go.etcd.io/bbolt"
)

var cookiesBucket = []byte("SessionCookies")

// Store persists session cookies per backend URL between runs.
type Store struct {
	db *bbolt.DB
}

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

// OpenStore opens (or creates) the session database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create session dir")
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open session db %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cookiesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create bucket")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(baseURL string, cookies []*http.Cookie) error {
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return errors.Wrap(err, "encode cookies")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(cookiesBucket).Put([]byte(baseURL), data)
	})
}

// Load returns the cookies saved for baseURL, or nil when there are none.
func (s *Store) Load(baseURL string) ([]*http.Cookie, error) {
	var stored []storedCookie
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(cookiesBucket).Get([]byte(baseURL))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &stored)
	})
	if err != nil {
		return nil, errors.Wrap(err, "load cookies")
	}
	if len(stored) == 0 {
		return nil, nil
	}
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}
	return cookies, nil
}

func (s *Store) Clear(baseURL string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(cookiesBucket).Delete([]byte(baseURL))
	})
}
