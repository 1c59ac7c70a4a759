package schoolpass

import (
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
)

// Session is the mutable authentication state of one API instance. It is
// filled in by the handshake and updated in place when the token is
// refreshed. A Session must not be shared between API instances.
type Session struct {
	BaseURL    string
	Token      string
	SchoolCode int
	User       User
}

// authorize sets the bearer token and school code headers when known.
func (s *Session) authorize(req *http.Request) {
	if s.Token != "" {
		tok := &oauth2.Token{AccessToken: s.Token, TokenType: "Bearer"}
		tok.SetAuthHeader(req)
	}
	if s.SchoolCode != 0 {
		req.Header.Set("Appcode", strconv.Itoa(s.SchoolCode))
	}
}
