package worker

import (
	"finguard/internal/config"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	// Create balance processing task handler
	processingHandler := NewBalanceTaskHandler(db, redis, cfg)

	// Register task handlers
	mux.HandleFunc("balance:process", processingHandler.Handle)
}
