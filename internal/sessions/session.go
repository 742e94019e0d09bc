package sessions

import (
	"bytes"
	"encoding/json"
)

// Session is the authenticated state of the storefront: the user profile as
// returned by the shop API and the credential pair issued at login.
type Session struct {
	User         json.RawMessage `json:"user,omitempty"`
	AccessToken  string          `json:"accessToken,omitempty"`
	RefreshToken string          `json:"refreshToken,omitempty"`
}

// Authenticated reports whether an access token is held.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

func (s Session) clone() Session {
	if s.User != nil {
		s.User = append(json.RawMessage(nil), s.User...)
	}
	return s
}

// LoginResult is the body of a successful POST /auth/login. Every field is
// optional; an absent field clears the corresponding session entry.
type LoginResult struct {
	User         json.RawMessage `json:"user,omitempty"`
	AccessToken  *string         `json:"access_token,omitempty"`
	RefreshToken *string         `json:"refresh_token,omitempty"`
}

// NewLoginResult builds a LoginResult with both tokens present.
func NewLoginResult(user json.RawMessage, access, refresh string) LoginResult {
	return LoginResult{User: user, AccessToken: &access, RefreshToken: &refresh}
}

func (r LoginResult) session() Session {
	var s Session
	if hasProfile(r.User) {
		s.User = append(json.RawMessage(nil), r.User...)
	}
	if r.AccessToken != nil {
		s.AccessToken = *r.AccessToken
	}
	if r.RefreshToken != nil {
		s.RefreshToken = *r.RefreshToken
	}
	return s
}

// hasProfile treats empty, null and invalid JSON as "no profile".
func hasProfile(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false
	}
	return json.Valid(trimmed)
}
