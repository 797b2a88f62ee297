//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lotbid-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lotbid-backend/internal/adapter/postgres/bid"
	"github.com/heartmarshall/lotbid-backend/internal/adapter/postgres/item"
	"github.com/heartmarshall/lotbid-backend/internal/adapter/postgres/lot"
	"github.com/heartmarshall/lotbid-backend/internal/adapter/postgres/testhelper"
	authpkg "github.com/heartmarshall/lotbid-backend/internal/auth"
	"github.com/heartmarshall/lotbid-backend/internal/config"
	"github.com/heartmarshall/lotbid-backend/internal/domain"
	"github.com/heartmarshall/lotbid-backend/internal/eventbus"
	"github.com/heartmarshall/lotbid-backend/internal/metrics"
	"github.com/heartmarshall/lotbid-backend/internal/service/bidding"
	"github.com/heartmarshall/lotbid-backend/internal/service/bidding/softclose"
	"github.com/heartmarshall/lotbid-backend/internal/service/closer"
	gql "github.com/heartmarshall/lotbid-backend/internal/transport/graphql"
	"github.com/heartmarshall/lotbid-backend/internal/transport/graphql/dataloader"
	"github.com/heartmarshall/lotbid-backend/internal/transport/graphql/resolver"
	"github.com/heartmarshall/lotbid-backend/internal/transport/middleware"
	"github.com/heartmarshall/lotbid-backend/internal/transport/rest"
)

const (
	testJWTSecret   = "test-secret-at-least-32-chars-long!!"
	testJWTIssuer   = "test-issuer"
	testSweepSecret = "sweep-secret"
)

// ---------------------------------------------------------------------------
// recordingSink captures delivered events for assertions.
// ---------------------------------------------------------------------------

type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(_ context.Context, ev domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

// ofType returns delivered events of type typ keyed by key.
func (s *recordingSink) ofType(typ domain.EventType, key uuid.UUID) []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Event
	for _, ev := range s.events {
		if ev.Type() == typ && ev.Key() == key {
			out = append(out, ev)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	Sink   *recordingSink
	jwt    *authpkg.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the application stack backed by a real
// PostgreSQL container (shared via testhelper). Redis and NATS are replaced
// by an in-memory sink on the event bus.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// 1. Pool from the testcontainers-backed helper.
	pool := testhelper.SetupTestDB(t)

	// 2. Infrastructure.
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	m := metrics.New(prometheus.NewRegistry())
	sink := &recordingSink{}
	bus := eventbus.New(logger, m, eventbus.Config{QueueSize: 64, Workers: 2, DeliverTimeout: time.Second}, sink)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = bus.Close(ctx)
	})

	// 3. Repositories.
	txm := postgres.NewTxManager(pool)
	items := item.New(pool)
	bids := bid.New(pool)
	lots := lot.New(pool)

	// 4. Services.
	biddingService, err := bidding.NewService(logger, items, bids, lots, txm, bus, m, bidding.Config{
		SoftClose:      softclose.Defaults{Window: 2 * time.Minute, Extend: 2 * time.Minute, ExtendLimit: 10},
		MaxRetries:     5,
		RetryBaseDelay: 5 * time.Millisecond,
	})
	require.NoError(t, err)

	closerService := closer.NewService(logger, lots, items, bids, txm, bus, m, closer.Config{BatchSize: 100, Parallelism: 2})

	// 5. Transport.
	jwtMgr := authpkg.NewJWTManager(testJWTSecret, testJWTIssuer)
	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	gqlHandler := dataloader.Middleware(&dataloader.Sources{Quotes: biddingService})(
		gql.NewHandler(resolver.NewResolver(logger, biddingService), logger),
	)

	handler := rest.NewRouter(rest.RouterDeps{
		Bidding:   rest.NewBiddingHandler(biddingService, logger),
		Sweep:     rest.NewSweepHandler(closerService, testSweepSecret, logger),
		GraphQL:   gqlHandler,
		Health:    rest.NewHealthHandler(pool, "test-version"),
		Metrics:   m.Handler(),
		Recorder:  m,
		Tokens:    jwtMgr,
		Limiter:   limiter,
		RateLimit: config.RateLimitConfig{BidsPerMinute: 1000},
		CORS: config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		},
		Log: logger,
	})

	// 6. httptest server.
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		Sink:   sink,
		jwt:    jwtMgr,
	}
}

// tokenFor returns a valid access token for a fresh user with the given role.
func (ts *testServer) tokenFor(t *testing.T, role domain.Role) (string, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	tok, err := ts.jwt.GenerateAccessToken(userID, role, 15*time.Minute)
	require.NoError(t, err)
	return tok, userID
}

// do sends a JSON request and decodes the JSON response into out (when
// non-nil). It returns the response status.
func (ts *testServer) do(t *testing.T, method, path, token string, body, out any, header ...string) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// placeBid posts a bid of amount on itemID.
func (ts *testServer) placeBid(t *testing.T, token string, itemID uuid.UUID, amount string, out any) int {
	t.Helper()
	return ts.do(t, http.MethodPost, "/api/v1/items/"+itemID.String()+"/bids", token, map[string]string{"amount": amount}, out)
}

// graphql posts a GraphQL document with variables and decodes the response.
func (ts *testServer) graphql(t *testing.T, token, query string, vars map[string]any, out any) int {
	t.Helper()
	return ts.do(t, http.MethodPost, "/query", token, map[string]any{"query": query, "variables": vars}, out)
}
