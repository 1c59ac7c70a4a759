package schoolpass_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolpass-automations/automations/pkg/logger"
	"github.com/schoolpass-automations/automations/pkg/schoolpass"
)

// recordingSleeper records requested waits without blocking.
type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
	err   error
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return s.err
}

func (s *recordingSleeper) Waits() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.waits...)
}

func TestClient_Reauthenticates_Once(t *testing.T) {
	t.Parallel()

	var busCalls atomic.Int32
	f := newFakeSchoolPass(t)
	f.bus = func(w http.ResponseWriter, r *http.Request) {
		busCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer token-2" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "destination": "North"}})
	}

	api := f.InitAPI()
	buses, err := api.ListBuses(t.Context())
	require.NoError(t, err)
	require.Len(t, buses, 1)

	assert.Equal(t, int32(2), busCalls.Load())
	assert.Equal(t, 2, f.AuthCalls(), "one handshake token plus one refresh")
	assert.Equal(t, "token-2", api.Session().Token)
}

func TestClient_SecondUnauthorizedIsFatal(t *testing.T) {
	t.Parallel()

	var busCalls atomic.Int32
	f := newFakeSchoolPass(t)
	f.bus = func(w http.ResponseWriter, r *http.Request) {
		busCalls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "nope"})
	}

	_, err := f.InitAPI().ListBuses(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, schoolpass.ErrRequestFailed)

	var apiErr *schoolpass.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	assert.Equal(t, int32(2), busCalls.Load())
	assert.Equal(t, 2, f.AuthCalls())
}

func TestClient_ReauthFailure(t *testing.T) {
	t.Parallel()

	f := newFakeSchoolPass(t)
	f.auth = func(w http.ResponseWriter, n int) {
		if n > 1 {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "auth down"})
			return
		}
		writeJSON(w, http.StatusOK, "token-1")
	}
	f.bus = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	}

	_, err := f.InitAPI().ListBuses(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, schoolpass.ErrReauthFailed)
	assert.ErrorIs(t, err, schoolpass.ErrRequestFailed)

	var apiErr *schoolpass.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode, "the original 401 is surfaced")
}

func TestClient_RateLimitBackoff(t *testing.T) {
	t.Parallel()

	var busCalls atomic.Int32
	f := newFakeSchoolPass(t)
	f.bus = func(w http.ResponseWriter, r *http.Request) {
		if busCalls.Add(1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1}})
	}

	sleeper := &recordingSleeper{}
	buses, err := f.InitAPI(schoolpass.WithSleeper(sleeper.Sleep)).ListBuses(t.Context())
	require.NoError(t, err)
	require.Len(t, buses, 1)

	assert.Equal(t, int32(2), busCalls.Load())
	require.Len(t, sleeper.Waits(), 1)
	assert.GreaterOrEqual(t, sleeper.Waits()[0], 5*time.Second)
}

func TestClient_RateLimitMissingRetryAfter(t *testing.T) {
	t.Parallel()

	var busCalls atomic.Int32
	f := newFakeSchoolPass(t)
	f.bus = func(w http.ResponseWriter, r *http.Request) {
		if busCalls.Add(1) == 1 {
			w.Header().Set("Retry-After", "soon")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{})
	}

	sleeper := &recordingSleeper{}
	_, err := f.InitAPI(schoolpass.WithSleeper(sleeper.Sleep)).ListBuses(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second}, sleeper.Waits())
}

func TestClient_RateLimitCap(t *testing.T) {
	t.Parallel()

	var busCalls atomic.Int32
	f := newFakeSchoolPass(t)
	f.bus = func(w http.ResponseWriter, r *http.Request) {
		busCalls.Add(1)
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}

	sleeper := &recordingSleeper{}
	api := f.InitAPI(schoolpass.WithSleeper(sleeper.Sleep), schoolpass.WithMaxRateLimitRetries(2))

	_, err := api.ListBuses(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, schoolpass.ErrRateLimited)
	assert.ErrorIs(t, err, schoolpass.ErrRequestFailed)

	assert.Equal(t, int32(3), busCalls.Load())
	assert.Len(t, sleeper.Waits(), 2)
}

func TestClient_RateLimitSleepCancelled(t *testing.T) {
	t.Parallel()

	f := newFakeSchoolPass(t)
	f.bus = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}

	sleeper := &recordingSleeper{err: context.Canceled}
	_, err := f.InitAPI(schoolpass.WithSleeper(sleeper.Sleep)).ListBuses(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_DefaultSleeperRespectsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3600")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := schoolpass.NewClient(&schoolpass.Session{BaseURL: srv.URL}, nil,
		schoolpass.WithHTTPClient(srv.Client()), schoolpass.WithLogger(logger.Discard()))

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := client.Do(ctx, http.MethodGet, "Bus", nil, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_Headers(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Bus", r.URL.Path)
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		assert.Equal(t, "99", r.Header.Get("Appcode"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "x", r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	session := &schoolpass.Session{BaseURL: srv.URL + "/api/", Token: "abc", SchoolCode: 99}
	client := schoolpass.NewClient(session, nil, schoolpass.WithHTTPClient(srv.Client()), schoolpass.WithLogger(logger.Discard()))

	var out map[string]string
	err := client.Do(t.Context(), http.MethodPost, "/Bus", map[string]int{"a": 1}, map[string][]string{"q": {"x"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "yes", out["ok"])
}

func TestClient_UnauthorizedWithoutReauth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := schoolpass.NewClient(&schoolpass.Session{BaseURL: srv.URL}, nil,
		schoolpass.WithHTTPClient(srv.Client()), schoolpass.WithLogger(logger.Discard()))

	err := client.Do(t.Context(), http.MethodGet, "Bus", nil, nil, nil)

	var apiErr *schoolpass.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestClient_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	client := schoolpass.NewClient(nil, nil)
	err := client.Do(t.Context(), http.MethodGet, "Bus", nil, nil, nil)
	assert.ErrorIs(t, err, schoolpass.ErrNotInitialized)
}

func TestAPI_ConfigRateLimitRetries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		retries   int
		wantCalls int32
	}{
		{name: "zero fails on the first 429", retries: 0, wantCalls: 1},
		{name: "configured cap", retries: 3, wantCalls: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var busCalls atomic.Int32
			f := newFakeSchoolPass(t)
			f.bus = func(w http.ResponseWriter, r *http.Request) {
				busCalls.Add(1)
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
			}

			cfg := f.Config()
			cfg.MaxRateLimitRetries = tt.retries
			sleeper := &recordingSleeper{}
			api := schoolpass.NewAPI(cfg,
				schoolpass.WithHTTPClient(f.srv.Client()),
				schoolpass.WithLogger(logger.Discard()),
				schoolpass.WithSleeper(sleeper.Sleep),
			)
			require.NoError(t, api.Init(t.Context()))

			_, err := api.ListBuses(t.Context())
			require.ErrorIs(t, err, schoolpass.ErrRateLimited)
			assert.Equal(t, tt.wantCalls, busCalls.Load())
			assert.Len(t, sleeper.Waits(), tt.retries)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := schoolpass.Config{Username: "u", Password: "p", HTTPTimeout: time.Second}
	require.NoError(t, valid.Validate())

	zero := valid
	zero.MaxRateLimitRetries = 0
	assert.NoError(t, zero.Validate())

	negative := valid
	negative.MaxRateLimitRetries = -1
	err := negative.Validate()
	require.ErrorIs(t, err, schoolpass.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "SCHOOLPASS_RATE_LIMIT_MAX_RETRIES")

	badTimeout := valid
	badTimeout.HTTPTimeout = -time.Second
	assert.ErrorIs(t, badTimeout.Validate(), schoolpass.ErrInvalidConfig)
}

func TestClient_ReauthEmptyToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	}))
	defer srv.Close()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithJSONFormatter())

	reauth := func(context.Context) (string, error) { return "", nil }
	client := schoolpass.NewClient(&schoolpass.Session{BaseURL: srv.URL, Token: "stale"}, reauth,
		schoolpass.WithHTTPClient(srv.Client()), schoolpass.WithLogger(log))

	err := client.Do(t.Context(), http.MethodGet, "Bus", nil, nil, nil)
	require.ErrorIs(t, err, schoolpass.ErrReauthFailed)
	assert.ErrorIs(t, err, schoolpass.ErrInvalidToken)

	var apiErr *schoolpass.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode, "the original 401 is surfaced")

	assert.Contains(t, buf.String(), "Unable to auto refresh authentication token")
	assert.Equal(t, "stale", client.Session().Token, "an empty token never replaces the session token")
}
