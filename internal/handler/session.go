package handler

import (
	"net/http"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/AlexZinkM/midnight-hello/internal/wallet"
)

// SessionCookie carries the browser's session id
const SessionCookie = "midnight_hello_session"

// SessionStore keeps connected wallet sessions per browser, evicting the least recently used
type SessionStore struct {
	cache *lru.Cache[string, *wallet.Session]
}

// NewSessionStore creates a store holding at most size sessions
func NewSessionStore(size int) (*SessionStore, error) {
	cache, err := lru.New[string, *wallet.Session](size)
	if err != nil {
		return nil, err
	}
	return &SessionStore{cache: cache}, nil
}

// Get returns the session of the request's cookie, or nil
func (s *SessionStore) Get(r *http.Request) *wallet.Session {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	session, ok := s.cache.Get(c.Value)
	if !ok {
		return nil
	}
	return session
}

// Put stores session under the request's cookie, issuing a new id when the request has none
func (s *SessionStore) Put(w http.ResponseWriter, r *http.Request, session *wallet.Session) {
	id := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	s.cache.Add(id, session)
}

// Len returns the number of stored sessions
func (s *SessionStore) Len() int {
	return s.cache.Len()
}
