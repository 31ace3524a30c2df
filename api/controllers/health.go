package controllers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/mealplanner-backend/api/responses"
	"github.com/angelmondragon/mealplanner-backend/pkg/config"
	"github.com/angelmondragon/mealplanner-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/mealplanner-backend/pkg/errors"
	"github.com/angelmondragon/mealplanner-backend/pkg/logger"
	"github.com/angelmondragon/mealplanner-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live", "env": cfg.App.Env})
	}
}

// HealthReady pings the database and, when configured, redis. A nil redis
// pinger means redis is disabled and is reported as such.
func HealthReady(logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{"database": "ok", "redis": "disabled"}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if dbP == nil {
				return pkgerrors.New(pkgerrors.CodeDependency, "database not configured")
			}
			if err := dbP.Ping(gctx); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database not ready")
			}
			return nil
		})
		if redisP != nil {
			checks["redis"] = "ok"
			g.Go(func() error {
				if err := redisP.Ping(gctx); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis not ready")
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
