package schoolpass

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   int
		reauthed bool
		want     outcome
	}{
		{http.StatusOK, false, outcomeOK},
		{http.StatusNoContent, true, outcomeOK},
		{http.StatusUnauthorized, false, outcomeReauth},
		{http.StatusUnauthorized, true, outcomeFail},
		{http.StatusTooManyRequests, false, outcomeBackoff},
		{http.StatusTooManyRequests, true, outcomeBackoff},
		{http.StatusForbidden, false, outcomeFail},
		{http.StatusInternalServerError, false, outcomeFail},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.status, tt.reauthed), "status %d reauthed %v", tt.status, tt.reauthed)
	}
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, 10*time.Second, parseRetryAfter("10", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-4", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("later", now))
	assert.Equal(t, 30*time.Second, parseRetryAfter(now.Add(30*time.Second).Format(http.TimeFormat), now))
	assert.Equal(t, time.Duration(0), parseRetryAfter(now.Add(-time.Minute).Format(http.TimeFormat), now))
}

func TestMessageFromBody(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", messageFromBody(nil))
	assert.Equal(t, "boom", messageFromBody([]byte(`{"message":"boom","title":"ignored"}`)))
	assert.Equal(t, "Bad Request", messageFromBody([]byte(`{"title":"Bad Request"}`)))
	assert.Equal(t, "more", messageFromBody([]byte(`{"detail":"more"}`)))
	assert.Equal(t, "quoted", messageFromBody([]byte(`"quoted"`)))
	assert.Equal(t, "plain text", messageFromBody([]byte("\n plain\ttext \n")))

	long := make([]byte, maxMessageLen+50)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, messageFromBody(long), maxMessageLen+3)
}

func TestParseToken(t *testing.T) {
	t.Parallel()

	token, err := parseToken([]byte(`"eyJhbGciOi"`))
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOi", token)

	token, err = parseToken([]byte("raw-token\n"))
	require.NoError(t, err)
	assert.Equal(t, "raw-token", token)

	_, err = parseToken([]byte(`""`))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordMode(t *testing.T) {
	t.Parallel()

	var m PasswordMode
	require.NoError(t, m.UnmarshalText([]byte("SHA1")))
	assert.Equal(t, PasswordSHA1, m)

	require.NoError(t, m.UnmarshalText(nil))
	assert.Equal(t, PasswordPlain, m)

	assert.ErrorIs(t, m.UnmarshalText([]byte("md5")), ErrInvalidPasswordMode)

	assert.Equal(t, "W6ph5Mm5Pz8GgiULbPgzG37mj9g=", HashPassword("password"))
	assert.Equal(t, "password", PasswordPlain.Apply("password"))
	assert.Equal(t, HashPassword("password"), PasswordSHA1.Apply("password"))
}
