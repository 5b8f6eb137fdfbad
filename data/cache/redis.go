package cache

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

const pricePrefix = "price:"

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func priceKey(symbol string) string {
	return pricePrefix + symbol
}

func (r *RedisCache) SetPrices(ctx context.Context, prices model.Prices) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.SetPrices"
	slog.Debug("SetPrices start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(prices)))

	if len(prices) == 0 {
		return nil
	}

	pipe := r.redis.Pipeline()
	for symbol, quote := range prices {
		quoteJson, err := json.Marshal(quote)
		if err != nil {
			slog.Error(
				"can't marshall quote in SetPrices",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.String("err", err.Error()),
				slog.Any("quote", quote),
			)
			return errors.New("can't marshall quote")
		}

		pipe.Set(ctx, priceKey(symbol), quoteJson, r.cfg.Cache.PricesExpiration)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		slog.Error("failed on pipe.Exec", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetPrices completed", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}

// GetPrices returns cached quotes and the symbols that have no cached quote.
func (r *RedisCache) GetPrices(ctx context.Context, symbols []string) (found model.Prices, missing []string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.GetPrices"
	slog.Debug("GetPrices start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("symbols", symbols))

	found = make(model.Prices, len(symbols))
	if len(symbols) == 0 {
		return found, nil, nil
	}

	keys := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		keys = append(keys, priceKey(symbol))
	}

	values, err := r.redis.MGet(ctx, keys...).Result()
	if err != nil {
		slog.Error("failed on redis.MGet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, symbols, err
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			missing = append(missing, symbols[i])
			continue
		}

		quote := model.PriceQuote{}
		if err := json.Unmarshal([]byte(raw), &quote); err != nil {
			slog.Error(
				"can't unmarshall quote in GetPrices",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.String("err", err.Error()),
				slog.String("resultFromRedis", raw),
			)
			missing = append(missing, symbols[i])
			continue
		}
		found[symbols[i]] = quote
	}

	slog.Debug("GetPrices completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("found", len(found)), slog.Int("missing", len(missing)))

	return found, missing, nil
}
