package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

type RedisSession struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisSession(redisClient *redis.Client, cfg *config.Config) *RedisSession {
	return &RedisSession{redis: redisClient, cfg: cfg}
}

func (r *RedisSession) GetSession(ctx context.Context, key string) (model.Session, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisSession.GetSession"

	res, err := r.redis.Get(ctx, sessionPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Session{}, err
	}

	chatSession := model.Session{}
	err = json.Unmarshal([]byte(res), &chatSession)
	if err != nil {
		slog.Error("can't unmarshall session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Session{}, err
	}

	return chatSession, nil
}

func (r *RedisSession) SetSession(ctx context.Context, key string, chatSession model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisSession.SetSession"

	sessionJson, err := json.Marshal(chatSession)
	if err != nil {
		slog.Error("can't marshall session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	err = r.redis.Set(ctx, sessionPrefix+key, sessionJson, r.cfg.SessionExpiration).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}
