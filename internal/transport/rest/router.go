package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/heartmarshall/lotbid-backend/internal/config"
	"github.com/heartmarshall/lotbid-backend/internal/transport/middleware"
)

type requestRecorder interface {
	HTTPRequest(method string, code int)
}

// RouterDeps collects everything the HTTP surface needs. Sweep and GraphQL
// may be nil, in which case their endpoints are not mounted.
type RouterDeps struct {
	Bidding   *BiddingHandler
	Sweep     *SweepHandler
	GraphQL   http.Handler
	Health    *HealthHandler
	Metrics   http.Handler
	Recorder  requestRecorder
	Tokens    middleware.TokenValidator
	Limiter   *middleware.RateLimiter
	RateLimit config.RateLimitConfig
	CORS      config.CORSConfig
	Log       *slog.Logger
}

// NewRouter builds the HTTP handler tree.
func NewRouter(d RouterDeps) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/live", d.Health.Live).Methods(http.MethodGet)
	r.HandleFunc("/ready", d.Health.Ready).Methods(http.MethodGet)
	r.HandleFunc("/health", d.Health.Health).Methods(http.MethodGet)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(mux.MiddlewareFunc(middleware.Auth(d.Tokens)))
	api.HandleFunc("/items/{id}/minimum-bid", d.Bidding.MinimumBid).Methods(http.MethodGet)
	api.HandleFunc("/pricing/minimum-bid", d.Bidding.Quote).Methods(http.MethodGet)

	bids := api.Path("/items/{id}/bids").Subrouter()
	if d.Limiter != nil {
		bids.Use(mux.MiddlewareFunc(d.Limiter.Limit(d.RateLimit.BidsPerMinute)))
	}
	bids.Methods(http.MethodPost).HandlerFunc(d.Bidding.PlaceBid)

	if d.GraphQL != nil {
		gql := r.Path("/query").Subrouter()
		gql.Use(mux.MiddlewareFunc(middleware.Auth(d.Tokens)))
		if d.Limiter != nil {
			gql.Use(mux.MiddlewareFunc(d.Limiter.Limit(d.RateLimit.BidsPerMinute)))
		}
		gql.Methods(http.MethodPost).Handler(d.GraphQL)
	}

	if d.Sweep != nil {
		r.HandleFunc("/internal/lots/sweep", d.Sweep.Sweep).Methods(http.MethodPost)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	mws := []middleware.Middleware{
		middleware.RequestID(),
		middleware.Recovery(d.Log),
		middleware.Logger(d.Log),
	}
	if d.Recorder != nil {
		mws = append(mws, middleware.Metrics(d.Recorder))
	}
	mws = append(mws, middleware.CORS(d.CORS))

	return middleware.Chain(mws...)(r)
}
