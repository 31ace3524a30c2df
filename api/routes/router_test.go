package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/mealplanner-backend/internal/shopping"
	"github.com/angelmondragon/mealplanner-backend/internal/stock"
	pkgAuth "github.com/angelmondragon/mealplanner-backend/pkg/auth"
	"github.com/angelmondragon/mealplanner-backend/pkg/config"
	"github.com/angelmondragon/mealplanner-backend/pkg/logger"
	"github.com/angelmondragon/mealplanner-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubStockService struct {
	stock.Service
	lowCalls []uuid.UUID
}

func (s *stubStockService) CountLow(ctx context.Context, userID uuid.UUID) (int, error) {
	s.lowCalls = append(s.lowCalls, userID)
	return 1, nil
}

type stubShoppingService struct {
	shopping.Service
	completed []uuid.UUID
}

func (s *stubShoppingService) Complete(ctx context.Context, userID, listID uuid.UUID) (*shopping.CompletionResult, error) {
	s.completed = append(s.completed, listID)
	return &shopping.CompletionResult{List: &shopping.ListView{ID: listID}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "mealplanner", ExpirationMinutes: 15},
	}
}

type testRouter struct {
	handler  http.Handler
	stock    *stubStockService
	shopping *stubShoppingService
}

func newTestRouter(cfg *config.Config) testRouter {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	reg := prometheus.NewRegistry()
	metrics.NewShoppingMetrics(reg).IncTransition("draft", "validated")

	st := &stubStockService{}
	sh := &stubShoppingService{}
	h := NewRouter(cfg, logg, stubPinger{}, nil, reg, nil, sh, st, nil, nil)
	return testRouter{handler: h, stock: st, shopping: sh}
}

func buildToken(t *testing.T, cfg *config.Config, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID, JTI: uuid.NewString()})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthRoutesArePublic(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestMetricsEndpointExposesRegistry(t *testing.T) {
	router := newTestRouter(testConfig())

	resp := httptest.NewRecorder()
	router.handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "shopping_list_transitions_total") {
		t.Fatalf("expected shopping metrics in scrape")
	}
	// The scrape itself is counted once it completes, so a second scrape sees it.
	resp = httptest.NewRecorder()
	router.handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if want := `http_requests_total{method="GET",route="/metrics",status="200"} 1`; !strings.Contains(resp.Body.String(), want) {
		t.Fatalf("expected %s in scrape", want)
	}
}

func TestAPIRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())

	resp := httptest.NewRecorder()
	router.handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/stock/low-count", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if len(router.stock.lowCalls) != 0 {
		t.Fatalf("service should not be reached without a token")
	}
}

func TestAPIScopesRequestsToTokenUser(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stock/low-count", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, userID))
	resp := httptest.NewRecorder()
	router.handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(router.stock.lowCalls) != 1 || router.stock.lowCalls[0] != userID {
		t.Fatalf("unexpected user scope %v", router.stock.lowCalls)
	}
}

func TestCompleteRouteWithoutRedisSkipsIdempotency(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	listID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/shopping-lists/"+listID.String()+"/complete", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(router.shopping.completed) != 1 || router.shopping.completed[0] != listID {
		t.Fatalf("unexpected completions %v", router.shopping.completed)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/stock", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	router.handler.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}
