package http

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/batuwa-travels/travel-api/internal/util"
)

// NewLimiterStore keeps counters in Redis when redisURL is set so several
// API instances share one budget, and in process memory otherwise.
func NewLimiterStore(redisURL string) (limiter.Store, error) {
	if redisURL == "" {
		return memory.NewStore(), nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "travel-api:limiter",
	})
}

// RateLimit limits requests per client IP. name separates budgets that share
// a store, rate uses the "<limit>-<S|M|H|D>" format.
func RateLimit(store limiter.Store, name, rate string) (echo.MiddlewareFunc, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("rate %q for %s: %w", rate, name, err)
	}
	instance := limiter.New(store, parsed)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := name + ":" + clientIP(c)
			result, err := instance.Get(c.Request().Context(), key)
			if err != nil {
				log.Printf("ratelimit: %s lookup failed: %v", name, err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(result.Reset, 10))

			if result.Reached {
				return c.JSON(http.StatusTooManyRequests, util.Error("too many requests, please try again later"))
			}
			return next(c)
		}
	}, nil
}
