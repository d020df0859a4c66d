package racefacer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drift_inc/internal/domain/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, baseURL string, store CookieStore) *Client {
	t.Helper()

	c, err := New(testLogger(), store, Config{
		BaseURL:  baseURL,
		Email:    "pit@drift.example",
		Password: "secret",
		Timeout:  2 * time.Second,
	})
	require.NoError(t, err)

	return c
}

func TestKartID(t *testing.T) {
	assert.Equal(t, kartIDAdvanced, KartID(models.LevelAdvanced))
	assert.Equal(t, kartIDIntermediate, KartID(models.LevelIntermediate))
	assert.Equal(t, kartIDAdvanced, KartID(models.Level("something-else")))
}

func TestFetchRanking_RankingObject(t *testing.T) {
	// объект с числовыми ключами вместо массива, поля под разными
	// историческими именами
	const payload = `{
		"data": {
			"ranking": {
				"1": {"pos": 2, "name": "B. Slow", "fastLapTime": "00:41.120", "fastLapDate": "2026-08-20"},
				"0": {"pos": 1, "full_name": "A. Fast", "best_time_with_weight": "00:39.512", "date": "2026-08-21", "max_speed": 62.5, "user_id": 101}
			}
		}
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ajax/user-ranking-by-time-box", r.URL.Path)
		assert.Equal(t, "612", r.URL.Query().Get("track_configuration_id"))
		assert.Equal(t, "832", r.URL.Query().Get("kart_id"))
		assert.Equal(t, "week", r.URL.Query().Get("period"))

		w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemoryCookieStore())

	rows, err := c.FetchRanking(context.Background(), models.TimeframeWeek, models.LevelAdvanced, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, "A. Fast", rows[0].Name)
	assert.Equal(t, "00:39.512", rows[0].Time)
	assert.Equal(t, "2026-08-21", rows[0].Date)
	assert.Equal(t, "62.5", rows[0].MaxKmH)
	assert.Equal(t, "101", rows[0].UserID)
	assert.Equal(t, "-", rows[0].S1)

	assert.Equal(t, 2, rows[1].Position)
	assert.Equal(t, "B. Slow", rows[1].Name)
	assert.Equal(t, "00:41.120", rows[1].Time)
}

func TestFetchRanking_TopRankingArray(t *testing.T) {
	const payload = `{
		"data": {
			"topRanking": [
				{"position": 1, "user_name": "Ghost", "time": "00:40.001"},
				{"position": 2, "best_time": "00:40.700"}
			]
		}
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemoryCookieStore())

	rows, err := c.FetchRanking(context.Background(), models.TimeframeDay, models.LevelIntermediate, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Ghost", rows[0].Name)
	assert.Equal(t, "Unknown", rows[1].Name)
	assert.Equal(t, "00:40.700", rows[1].Time)
}

func TestFetchRanking_DataIsArray(t *testing.T) {
	const payload = `{"data": [{"pos": 1, "name": "Solo", "best_time": "00:44.900"}]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemoryCookieStore())

	rows, err := c.FetchRanking(context.Background(), models.TimeframeAll, models.LevelAdvanced, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Solo", rows[0].Name)
}

func TestFetchRanking_EmptyRanking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"ranking": []}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemoryCookieStore())

	rows, err := c.FetchRanking(context.Background(), models.TimeframeDay, models.LevelAdvanced, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFetchRanking_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>definitely not json</html>`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, NewMemoryCookieStore())

	_, err := c.FetchRanking(context.Background(), models.TimeframeDay, models.LevelAdvanced, 0, 10)
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestFetchRanking_LoginRetry(t *testing.T) {
	store := NewMemoryCookieStore()

	var loggedIn bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/en/login":
			w.Write([]byte("<html>login page</html>"))
		case "/login":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "pit@drift.example", r.PostForm.Get("email"))
			assert.Equal(t, "secret", r.PostForm.Get("password"))

			loggedIn = true
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "fresh", Path: "/"})
		case "/ajax/user-ranking-by-time-box":
			if cookie, err := r.Cookie("session"); err != nil || cookie.Value != "fresh" {
				// без сессии сервис отвечает пустым телом
				return
			}
			w.Write([]byte(`{"data": {"ranking": [{"pos": 1, "name": "After Login", "best_time": "00:42.000"}]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, store)

	rows, err := c.FetchRanking(context.Background(), models.TimeframeDay, models.LevelAdvanced, 0, 10)
	require.NoError(t, err)
	require.True(t, loggedIn)
	require.Len(t, rows, 1)
	assert.Equal(t, "After Login", rows[0].Name)

	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, saved, "session cookies must be persisted after login")
}

func TestFetchRanking_UnavailableWithoutCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// всегда пустой ответ: повторная попытка потребует логина
	}))
	defer srv.Close()

	c, err := New(testLogger(), NewMemoryCookieStore(), Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.FetchRanking(context.Background(), models.TimeframeDay, models.LevelAdvanced, 0, 10)
	assert.ErrorIs(t, err, models.ErrRankingUnavailable)
}

func TestFetchRanking_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(t, srv.URL, NewMemoryCookieStore())

	_, err := c.FetchRanking(context.Background(), models.TimeframeDay, models.LevelAdvanced, 0, 10)
	assert.ErrorIs(t, err, models.ErrRankingUnavailable)
}
