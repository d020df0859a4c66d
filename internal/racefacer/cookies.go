package racefacer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	redisapp "drift_inc/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

// CookieStore персистентное хранилище сессионных cookies между процессами.
// Возвращает nil без ошибки, если сохранённых cookies нет.
type CookieStore interface {
	Load(ctx context.Context) ([]*http.Cookie, error)
	Save(ctx context.Context, cookies []*http.Cookie) error
}

const (
	cookieKey = "racefacer:cookies"
	cookieTTL = 30 * 24 * time.Hour
)

// сериализуемое подмножество http.Cookie
type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Domain  string    `json:"domain,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
	Secure  bool      `json:"secure,omitempty"`
}

// RedisCookieStore хранит cookies в Redis, замена файлового хранилища
type RedisCookieStore struct {
	client *redisapp.Client
}

func NewRedisCookieStore(client *redisapp.Client) *RedisCookieStore {
	return &RedisCookieStore{client: client}
}

func (s *RedisCookieStore) Load(ctx context.Context) ([]*http.Cookie, error) {
	const op = "racefacer.RedisCookieStore.Load"

	raw, err := s.client.Get(ctx, cookieKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var stored []storedCookie
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Expires: c.Expires,
			Secure:  c.Secure,
		})
	}

	return cookies, nil
}

func (s *RedisCookieStore) Save(ctx context.Context, cookies []*http.Cookie) error {
	const op = "racefacer.RedisCookieStore.Save"

	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Expires: c.Expires,
			Secure:  c.Secure,
		})
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.Set(ctx, cookieKey, raw, cookieTTL).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// MemoryCookieStore хранит cookies в памяти процесса, для тестов и локального запуска
type MemoryCookieStore struct {
	mu      sync.Mutex
	cookies []*http.Cookie
}

func NewMemoryCookieStore() *MemoryCookieStore {
	return &MemoryCookieStore{}
}

func (s *MemoryCookieStore) Load(_ context.Context) ([]*http.Cookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cookies, nil
}

func (s *MemoryCookieStore) Save(_ context.Context, cookies []*http.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies = cookies
	return nil
}
