package racefacer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"drift_inc/internal/domain/models"
	"drift_inc/internal/lib/logger/sl"
)

// ErrBadPayload внешний сервис вернул непустой, но неразбираемый ответ
var ErrBadPayload = errors.New("racefacer: malformed payload")

const (
	defaultBaseURL = "https://www.racefacer.com"
	defaultTrackID = 612

	kartIDAdvanced     = 832
	kartIDIntermediate = 879

	userAgent = "Mozilla/5.0"
)

// KartID возвращает идентификатор класса картов для уровня
func KartID(level models.Level) int {
	if level == models.LevelIntermediate {
		return kartIDIntermediate
	}
	return kartIDAdvanced
}

type Config struct {
	BaseURL  string
	TrackID  int
	UserID   string
	Email    string
	Password string
	Timeout  time.Duration
}

// Client клиент рейтинга racefacer.com: cookie-сессия, форма логина,
// JSON-эндпоинт ajax/user-ranking-by-time-box. Интеграция best-effort:
// одна повторная попытка после логина, без бэкоффа.
type Client struct {
	log        *slog.Logger
	httpClient *http.Client
	jar        *cookiejar.Jar
	store      CookieStore
	cfg        Config
}

func New(log *slog.Logger, store CookieStore, cfg Config) (*Client, error) {
	const op = "racefacer.New"

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.TrackID == 0 {
		cfg.TrackID = defaultTrackID
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := &Client{
		log:   log,
		jar:   jar,
		store: store,
		cfg:   cfg,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: cfg.Timeout,
		},
	}

	c.restoreCookies(context.Background())

	return c, nil
}

// FetchRanking запрашивает рейтинг за период для уровня картов.
// Возвращает models.ErrRankingUnavailable, если внешний сервис недоступен
// или ответ пуст даже после повторного логина, и ErrBadPayload, если тело
// ответа не разбирается как JSON.
func (c *Client) FetchRanking(ctx context.Context, timeframe models.Timeframe, level models.Level, offset, limit int) ([]models.RankingRow, error) {
	const op = "racefacer.Client.FetchRanking"

	log := c.log.With(
		slog.String("op", op),
		slog.String("timeframe", string(timeframe)),
		slog.String("level", string(level)),
	)

	rankingURL := c.buildRankingURL(timeframe, level, offset, limit)

	raw, err := c.doFetch(ctx, rankingURL)
	if err != nil || len(strings.TrimSpace(string(raw))) == 0 {
		log.Warn("ranking fetch returned empty or blocked, refreshing session")

		if loginErr := c.login(ctx); loginErr != nil {
			log.Error("login failed", sl.Err(loginErr))
			return nil, fmt.Errorf("%s: %w", op, models.ErrRankingUnavailable)
		}

		raw, err = c.doFetch(ctx, rankingURL)
		if err != nil {
			log.Error("ranking fetch failed after login", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, models.ErrRankingUnavailable)
		}
	}

	c.persistCookies(ctx)

	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrRankingUnavailable)
	}

	rows, err := parseRanking(raw)
	if err != nil {
		log.Error("failed to parse ranking payload", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("ranking fetched", slog.Int("rows", len(rows)))

	return rows, nil
}

func (c *Client) buildRankingURL(timeframe models.Timeframe, level models.Level, offset, limit int) string {
	params := url.Values{}
	params.Set("track_configuration_id", strconv.Itoa(c.cfg.TrackID))
	params.Set("kart_id", strconv.Itoa(KartID(level)))
	params.Set("period", string(timeframe))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))
	if c.cfg.UserID != "" {
		params.Set("user_id", c.cfg.UserID)
	}

	return c.cfg.BaseURL + "/ajax/user-ranking-by-time-box?" + params.Encode()
}

func (c *Client) doFetch(ctx context.Context, rankingURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rankingURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// login выполняет вход формой: сначала GET страницы логина за CSRF-cookie,
// затем POST email/password
func (c *Client) login(ctx context.Context) error {
	const op = "racefacer.Client.login"

	if c.cfg.Email == "" || c.cfg.Password == "" {
		return fmt.Errorf("%s: credentials are not configured", op)
	}

	pageReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/en/login", nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	pageReq.Header.Set("User-Agent", userAgent)

	if resp, err := c.httpClient.Do(pageReq); err == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	form := url.Values{}
	form.Set("email", c.cfg.Email)
	form.Set("password", c.cfg.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", c.cfg.BaseURL+"/en/login")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: login rejected with status %d", op, resp.StatusCode)
	}

	c.persistCookies(ctx)

	return nil
}

func (c *Client) restoreCookies(ctx context.Context) {
	baseURL, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return
	}

	cookies, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn("could not load saved cookies", sl.Err(err))
		return
	}
	if len(cookies) > 0 {
		c.jar.SetCookies(baseURL, cookies)
	}
}

func (c *Client) persistCookies(ctx context.Context) {
	baseURL, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return
	}

	if err := c.store.Save(ctx, c.jar.Cookies(baseURL)); err != nil {
		c.log.Warn("failed to save cookies", sl.Err(err))
	}
}

// parseRanking нормализует ответ внешнего сервиса: таблица рейтинга берётся
// из data.ranking, затем data.topRanking, затем data; у полей строк несколько
// исторических вариантов имён
func parseRanking(raw []byte) ([]models.RankingRow, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrBadPayload
	}

	source := rankingSource(payload)
	if source == nil {
		return nil, nil
	}

	var rows []models.RankingRow
	for i, value := range source {
		entry, ok := value.(map[string]interface{})
		if !ok {
			continue
		}

		row := models.RankingRow{
			Position:   intField(entry, i+1, "pos", "position"),
			Name:       strField(entry, "Unknown", "full_name", "name", "user_name"),
			Date:       strField(entry, "-", "date", "fastLapDate"),
			Time:       normalizeLapTime(entry),
			MaxKmH:     strField(entry, "", "max_speed"),
			MaxG:       strField(entry, "", "max_gforce"),
			Avatar:     strField(entry, "", "profile_image", "profile_image_medium", "profile_image_small", "avatar"),
			ProfileURL: strField(entry, "", "profile_url"),
			UserID:     strField(entry, "", "user_id"),
			S1:         strField(entry, "-", "s1"),
			S2:         strField(entry, "-", "s2"),
			S3:         strField(entry, "-", "s3"),
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position < rows[j].Position
	})

	return rows, nil
}

// rankingSource разворачивает объект или массив строк рейтинга в срез значений
func rankingSource(payload map[string]interface{}) []interface{} {
	data, ok := payload["data"]
	if !ok || data == nil {
		return nil
	}

	candidates := []interface{}{data}
	if m, ok := data.(map[string]interface{}); ok {
		if ranking, ok := m["ranking"]; ok && ranking != nil {
			candidates = []interface{}{ranking, m}
		} else if top, ok := m["topRanking"]; ok && top != nil {
			candidates = []interface{}{top, m}
		}
	}

	for _, candidate := range candidates {
		switch v := candidate.(type) {
		case []interface{}:
			return v
		case map[string]interface{}:
			values := make([]interface{}, 0, len(v))
			// стабильный порядок обхода: ключи объекта
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				values = append(values, v[k])
			}
			if len(values) > 0 {
				return values
			}
		}
	}

	return nil
}

func normalizeLapTime(entry map[string]interface{}) string {
	t := strField(entry, "",
		"best_time",
		"best_time_with_weight",
		"fastLapTime",
		"fast_time",
		"bestLapTime",
		"time",
		"best_time_ms",
	)
	if t == "" {
		return "-"
	}
	return t
}

// strField возвращает первое непустое значение среди вариантов имени поля
func strField(entry map[string]interface{}, def string, keys ...string) string {
	for _, key := range keys {
		value, ok := entry[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			if v == float64(int64(v)) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return def
}

func intField(entry map[string]interface{}, def int, keys ...string) int {
	for _, key := range keys {
		value, ok := entry[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return def
}
