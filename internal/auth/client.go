package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/supabase-token/internal/config"
	"github.com/Chapsvision-dev/supabase-token/internal/store"
)

var (
	ErrURLRequired = errors.New("supabaseUrl is required")
	ErrKeyRequired = errors.New("supabaseKey is required")
)

// Client is the auth handle bound to one project URL.
// It only reads the persisted session: no writes, no refresh.
type Client struct {
	url        *url.URL
	storageKey string
	store      store.Store
	now        func() time.Time
}

// NewClient validates the project settings and binds the session store.
func NewClient(cfg config.Config, st store.Store) (*Client, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return nil, ErrURLRequired
	}
	if strings.TrimSpace(cfg.AnonKey) == "" {
		return nil, ErrKeyRequired
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid supabaseUrl: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, fmt.Errorf("invalid supabaseUrl %q: must be an http(s) URL", raw)
	}
	if st == nil {
		return nil, errors.New("auth: nil session store")
	}

	key := strings.TrimSpace(cfg.StorageKey)
	if key == "" {
		key = DefaultStorageKey(u)
	}

	log.Debug().
		Str("action", "auth_new").
		Str("url", u.String()).
		Str("store", st.Name()).
		Str("storage_key", key).
		Msg("auth client created")

	return &Client{
		url:        u,
		storageKey: key,
		store:      st,
		now:        time.Now,
	}, nil
}

// DefaultStorageKey returns sb-<project-ref>-auth-token, where the project
// ref is the first label of the host.
func DefaultStorageKey(u *url.URL) string {
	ref, _, _ := strings.Cut(u.Hostname(), ".")
	return "sb-" + ref + "-auth-token"
}

// StorageKey is the key the session is read from.
func (c *Client) StorageKey() string { return c.storageKey }

// GetSession returns the current session, or nil when none is stored.
// It performs exactly one store read.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	logger := log.With().Str("action", "auth_get_session").Str("project", c.url.Host).
		Str("storage_key", c.storageKey).Logger()

	raw, err := c.store.GetItem(ctx, c.storageKey)
	if errors.Is(err, store.ErrNotFound) {
		logger.Debug().Msg("no session")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session from %s store: %w", c.store.Name(), err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		logger.Debug().Msg("empty session")
		return nil, nil
	}

	var s *Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	// Never log the token content.
	ev := logger.Debug().Bool("has_token", s.AccessToken != "")
	if s.User != nil {
		ev = ev.Str("user_id", s.User.ID)
	}
	ev.Msg("session loaded")

	if s.Expired(c.now()) {
		logger.Warn().
			Time("expires_at", time.Unix(s.ExpiresAt, 0).UTC()).
			Msg("session expired; it is returned as stored and not refreshed")
	}
	return s, nil
}
