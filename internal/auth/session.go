package auth

import (
	"bytes"
	"encoding/json"
	"time"
)

// Session is the persisted auth session as written by the Supabase client
// libraries. Only AccessToken is consumed here; the rest is decoded so that
// logs and expiry checks have something to work with.
type Session struct {
	AccessToken   Token  `json:"access_token"`
	TokenType     string `json:"token_type,omitempty"`
	ExpiresIn     int64  `json:"expires_in,omitempty"`
	ExpiresAt     int64  `json:"expires_at,omitempty"` // unix seconds
	RefreshToken  string `json:"refresh_token,omitempty"`
	ProviderToken string `json:"provider_token,omitempty"`
	User          *User  `json:"user,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Aud   string `json:"aud,omitempty"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Expired reports whether the session carries an expiry that has passed.
// A session without expires_at never expires.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt <= 0 {
		return false
	}
	return !now.Before(time.Unix(s.ExpiresAt, 0))
}

// Token is the access token as stored. String values decode as-is; any other
// JSON scalar or value keeps its compact JSON text, so it is printed rather
// than rejected.
type Token string

func (t *Token) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Token(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	*t = Token(buf.String())
	return nil
}
