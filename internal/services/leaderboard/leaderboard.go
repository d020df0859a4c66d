package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"drift_inc/internal/domain/models"
	"drift_inc/internal/lib/logger/sl"

	gocache "github.com/patrickmn/go-cache"
)

const (
	cacheTTL     = time.Minute
	cacheCleanup = 5 * time.Minute

	defaultLimit = 40
	maxLimit     = 100
)

// RankingFetcher источник внешнего рейтинга
type RankingFetcher interface {
	FetchRanking(ctx context.Context, timeframe models.Timeframe, level models.Level, offset, limit int) ([]models.RankingRow, error)
}

// Service кэширующая прослойка над внешним рейтингом. Недоступность
// внешнего сервиса прячется за пустым списком, чтобы публичная страница
// не зависела от racefacer.com.
type Service struct {
	log     *slog.Logger
	fetcher RankingFetcher
	cache   *gocache.Cache
}

func New(log *slog.Logger, fetcher RankingFetcher) *Service {
	return &Service{
		log:     log,
		fetcher: fetcher,
		cache:   gocache.New(cacheTTL, cacheCleanup),
	}
}

// GetRanking возвращает рейтинг за период для класса картов. Параметры
// нормализуются к допустимым значениям, результат кэшируется на минуту.
func (s *Service) GetRanking(ctx context.Context, timeframe, level string, offset, limit int) ([]models.RankingRow, error) {
	const op = "service.Leaderboard.GetRanking"

	tf := models.NormalizeTimeframe(timeframe)
	lv := models.NormalizeLevel(level)

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	key := fmt.Sprintf("%s:%s:%d:%d", tf, lv, offset, limit)

	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.RankingRow), nil
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("timeframe", string(tf)),
		slog.String("level", string(lv)),
	)

	rows, err := s.fetcher.FetchRanking(ctx, tf, lv, offset, limit)
	if err != nil {
		if errors.Is(err, models.ErrRankingUnavailable) {
			// публичная страница рендерит пустую таблицу
			log.Warn("ranking unavailable, serving empty list", sl.Err(err))
			return []models.RankingRow{}, nil
		}
		log.Error("ranking fetch failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if rows == nil {
		rows = []models.RankingRow{}
	}

	s.cache.Set(key, rows, gocache.DefaultExpiration)

	return rows, nil
}
