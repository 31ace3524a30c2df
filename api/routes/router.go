package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/mealplanner-backend/api/controllers"
	"github.com/angelmondragon/mealplanner-backend/api/middleware"
	"github.com/angelmondragon/mealplanner-backend/internal/demand"
	"github.com/angelmondragon/mealplanner-backend/internal/inventory"
	"github.com/angelmondragon/mealplanner-backend/internal/kitchen"
	"github.com/angelmondragon/mealplanner-backend/internal/shopping"
	"github.com/angelmondragon/mealplanner-backend/internal/stock"
	"github.com/angelmondragon/mealplanner-backend/pkg/config"
	"github.com/angelmondragon/mealplanner-backend/pkg/db"
	"github.com/angelmondragon/mealplanner-backend/pkg/logger"
	"github.com/angelmondragon/mealplanner-backend/pkg/metrics"
	"github.com/angelmondragon/mealplanner-backend/pkg/redis"
)

// NewRouter wires every HTTP route. redisClient may be nil, in which case
// readiness skips redis and idempotent replay is disabled. A nil registry
// turns off /metrics and request metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	demandAggregator *demand.Aggregator,
	shoppingService shopping.Service,
	stockService stock.Service,
	inventoryService inventory.Service,
	kitchenService kitchen.Service,
) http.Handler {
	var httpMetrics *metrics.HTTPMetrics
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	// Typed nils must not leak into the interfaces below.
	var (
		redisPinger redis.Pinger
		idemStore   redis.IdempotencyStore
	)
	if redisClient != nil {
		redisPinger = redisClient
		idemStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(logg, dbP, redisPinger))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/shopping-lists", func(r chi.Router) {
			r.Post("/", controllers.CreateShoppingList(shoppingService, logg))
			r.Get("/", controllers.ListShoppingLists(shoppingService, logg))
			r.Route("/{listId}", func(r chi.Router) {
				r.Get("/", controllers.GetShoppingList(shoppingService, logg))
				r.Delete("/", controllers.DeleteShoppingList(shoppingService, logg))
				r.Post("/reconcile", controllers.ReconcileShoppingList(shoppingService, logg))
				r.Post("/remove-in-stock", controllers.RemoveShoppingItemsInStock(shoppingService, logg))
				r.Post("/validate", controllers.ValidateShoppingList(shoppingService, logg))
				r.Post("/begin", controllers.BeginShopping(shoppingService, logg))
				r.Post("/complete", controllers.CompleteShoppingList(shoppingService, logg))
				r.Patch("/items/{itemId}", controllers.UpdateShoppingItem(shoppingService, logg))
				r.Delete("/items/{itemId}", controllers.DeleteShoppingItem(shoppingService, logg))
			})
		})

		r.Get("/menus/{menuId}/demand", controllers.MenuDemand(demandAggregator, logg))

		r.Route("/stock", func(r chi.Router) {
			r.Get("/", controllers.ListStock(stockService, logg))
			r.Get("/low-count", controllers.CountLowStock(stockService, logg))
			r.Post("/", controllers.AddStock(stockService, logg))
			r.Post("/{entryId}/adjust", controllers.AdjustStock(stockService, logg))
			r.Delete("/{entryId}", controllers.DeleteStock(stockService, logg))
		})

		r.Route("/inventories", func(r chi.Router) {
			r.Post("/", controllers.RecordInventory(inventoryService, logg))
			r.Get("/", controllers.ListInventories(inventoryService, logg))
			r.Get("/{inventoryId}", controllers.GetInventory(inventoryService, logg))
			r.Delete("/{inventoryId}", controllers.DeleteInventory(inventoryService, logg))
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/possible", controllers.PossibleRecipes(kitchenService, logg))
			r.Post("/{recipeId}/cook", controllers.CookRecipe(kitchenService, logg))
		})
	})

	return r
}
