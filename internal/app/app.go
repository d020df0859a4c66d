package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "drift_inc/internal/app/http"
	"drift_inc/internal/config"
	"drift_inc/internal/racefacer"
	"drift_inc/internal/repository"
	"drift_inc/internal/services/adminauth"
	contentservice "drift_inc/internal/services/content_service"
	eventservice "drift_inc/internal/services/event_service"
	galleryservice "drift_inc/internal/services/gallery_service"
	"drift_inc/internal/services/leaderboard"
	"drift_inc/internal/storage/objectstore"
	"drift_inc/internal/storage/postgresql"
	redisapp "drift_inc/internal/storage/redis"
	httprouters "drift_inc/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	storage *postgresql.Storage
	redis   *redisapp.Client
}

// New собирает приложение: postgres, redis, медиахранилище, клиент
// внешнего рейтинга, сервисы и HTTP-сервер
func New(log *slog.Logger, cfg *config.Config) *App {
	storage, err := postgresql.New(context.Background(), cfg.DSN)
	if err != nil {
		panic(err)
	}

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)

	media, err := buildMediaStorage(cfg.Media)
	if err != nil {
		panic(err)
	}

	repo := repository.NewRepository(storage.Pool())

	rfClient, err := racefacer.New(log, racefacer.NewRedisCookieStore(redisClient), racefacer.Config{
		BaseURL:  cfg.Racefacer.BaseURL,
		TrackID:  cfg.Racefacer.TrackID,
		UserID:   cfg.Racefacer.UserID,
		Email:    cfg.Racefacer.Email,
		Password: cfg.Racefacer.Password,
		Timeout:  cfg.Racefacer.Timeout,
	})
	if err != nil {
		panic(err)
	}

	routers := httprouters.NewRouter(
		log,
		galleryservice.NewGalleryService(log, repo.Gallery, media),
		eventservice.NewEventService(log, repo.Events),
		contentservice.NewContentService(log, repo.Content),
		leaderboard.New(log, rfClient),
		adminauth.New(log, cfg.Admin.Username, cfg.Admin.PasswordHash),
	)

	server := httpapp.New(log, cfg.HTTP.SessionSecret, cfg.HTTP.Host, cfg.HTTP.Port, routers)

	return &App{
		HTTPServer: server,
		storage:    storage,
		redis:      redisClient,
	}
}

func (a *App) Stop() {
	a.HTTPServer.Stop()
	a.storage.Stop()
	a.redis.Close()
}

func buildMediaStorage(cfg config.MediaConfig) (objectstore.MediaStorage, error) {
	switch cfg.Backend {
	case "minio":
		return objectstore.NewMinioStorage(
			cfg.Minio.Endpoint,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.Bucket,
			cfg.Minio.UseSSL,
		)
	case "local":
		return objectstore.NewLocalStorage(cfg.Local.BaseDir, cfg.Local.BaseURL)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
}
