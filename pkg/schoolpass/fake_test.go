package schoolpass_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolpass-automations/automations/pkg/logger"
	"github.com/schoolpass-automations/automations/pkg/schoolpass"
)

const (
	testUsername       = "transport@example.com"
	testPassword       = "s3cret"
	testBootstrapToken = "bootstrap-token"
	testAppCode        = 1234
)

// fakeSchoolPass serves the runtime config, home base and school API from
// one httptest server.
type fakeSchoolPass struct {
	t   *testing.T
	srv *httptest.Server

	mu        sync.Mutex
	calls     []string
	authCalls int
	authBody  []map[string]any

	runtimeConfig func(srvURL string) any
	userInfo      func(srvURL string) any
	users         any
	auth          func(w http.ResponseWriter, n int)
	bus           http.HandlerFunc
	report        http.HandlerFunc
}

func newFakeSchoolPass(t *testing.T) *fakeSchoolPass {
	t.Helper()

	f := &fakeSchoolPass{
		t: t,
		runtimeConfig: func(srvURL string) any {
			return map[string]string{"defaultHomeBaseUrl": srvURL + "/homebase", "authToken": testBootstrapToken}
		},
		userInfo: func(srvURL string) any {
			return []map[string]any{{
				"login":            testUsername,
				"schoolConnection": map[string]any{"appCode": testAppCode, "apiUrl": srvURL, "schoolName": "Test School"},
			}}
		},
		users: []map[string]any{{"internalId": 42, "userType": 3}},
		auth: func(w http.ResponseWriter, n int) {
			writeJSON(w, http.StatusOK, fmt.Sprintf("token-%d", n))
		},
		bus: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{})
		},
		report: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{})
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /runtime.config.json", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, f.runtimeConfig(f.srv.URL))
	})
	mux.HandleFunc("GET /homebase/findspruserinfo", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		assert.Equal(t, "Bearer "+testBootstrapToken, r.Header.Get("Authorization"))
		assert.Equal(t, testUsername, r.URL.Query().Get("emailAddress"))
		writeJSON(w, http.StatusOK, f.userInfo(f.srv.URL))
	})
	mux.HandleFunc("GET /api/User", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		assert.Equal(t, "Bearer "+testBootstrapToken, r.Header.Get("Authorization"))
		assert.Equal(t, "1234", r.Header.Get("Appcode"))
		q := r.URL.Query()
		assert.Equal(t, "1234", q.Get("schoolCode"))
		assert.Equal(t, testUsername, q.Get("login"))
		assert.Equal(t, testPassword, q.Get("password"))
		writeJSON(w, http.StatusOK, f.users)
	})
	mux.HandleFunc("POST /api/Auth/token", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		f.mu.Lock()
		f.authCalls++
		n := f.authCalls
		f.authBody = append(f.authBody, body)
		f.mu.Unlock()

		f.auth(w, n)
	})
	mux.HandleFunc("GET /api/Bus", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.bus(w, r)
	})
	mux.HandleFunc("POST /api/v2/Reports/BusBoardingManifestReport", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.report(w, r)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeSchoolPass) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeSchoolPass) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSchoolPass) AuthCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authCalls
}

func (f *fakeSchoolPass) Config() schoolpass.Config {
	return schoolpass.Config{
		ConfigURL:           f.srv.URL + "/runtime.config.json",
		SchoolName:          "Test School",
		Username:            testUsername,
		Password:            testPassword,
		PasswordMode:        schoolpass.PasswordPlain,
		MaxRateLimitRetries: 5,
	}
}

// API returns an API wired to the fake with a recording sleeper.
func (f *fakeSchoolPass) API(opts ...schoolpass.Option) *schoolpass.API {
	all := append([]schoolpass.Option{
		schoolpass.WithHTTPClient(f.srv.Client()),
		schoolpass.WithLogger(logger.Discard()),
	}, opts...)
	return schoolpass.NewAPI(f.Config(), all...)
}

func (f *fakeSchoolPass) InitAPI(opts ...schoolpass.Option) *schoolpass.API {
	f.t.Helper()
	api := f.API(opts...)
	require.NoError(f.t, api.Init(f.t.Context()))
	return api
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
