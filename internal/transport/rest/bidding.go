package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
	"github.com/heartmarshall/lotbid-backend/internal/service/bidding"
	"github.com/heartmarshall/lotbid-backend/pkg/ctxutil"
)

const maxBidBodyBytes = 4 << 10

type biddingService interface {
	PlaceBid(ctx context.Context, input bidding.PlaceBidInput) (*domain.BidReceipt, error)
	MinimumBid(ctx context.Context, itemID uuid.UUID) (*bidding.MinimumBidQuote, error)
	Quote(price decimal.Decimal) bidding.PriceQuote
}

// BiddingHandler serves the bid placement and minimum-bid endpoints.
type BiddingHandler struct {
	svc biddingService
	log *slog.Logger
}

// NewBiddingHandler creates a BiddingHandler.
func NewBiddingHandler(svc biddingService, logger *slog.Logger) *BiddingHandler {
	return &BiddingHandler{svc: svc, log: logger.With("handler", "bidding")}
}

type placeBidRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type bidResponse struct {
	BidID         string    `json:"bid_id"`
	Seq           int64     `json:"seq"`
	ItemID        string    `json:"item_id"`
	LotID         string    `json:"lot_id"`
	BidderID      string    `json:"bidder_id"`
	Amount        string    `json:"amount"`
	PreviousPrice string    `json:"previous_price"`
	CurrentPrice  string    `json:"current_price"`
	NextMinimum   string    `json:"next_minimum"`
	ClosesAt      time.Time `json:"closes_at"`
	Extended      bool      `json:"extended"`
	ExtendedCount int       `json:"extended_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type minimumBidResponse struct {
	ItemID           string     `json:"item_id"`
	CurrentPrice     string     `json:"current_price"`
	MinimumIncrement string     `json:"minimum_increment"`
	MinimumNextBid   string     `json:"minimum_next_bid"`
	ClosesAt         *time.Time `json:"closes_at,omitempty"`
	Open             bool       `json:"open"`
}

type quoteResponse struct {
	Price            string `json:"price"`
	MinimumIncrement string `json:"minimum_increment"`
	MinimumNextBid   string `json:"minimum_next_bid"`
}

// PlaceBid handles POST /api/v1/items/{id}/bids.
func (h *BiddingHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	bidderID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	itemID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req placeBidRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBidBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount == nil {
		handleError(h.log, w, r, domain.NewValidationError("amount", "required"))
		return
	}

	receipt, err := h.svc.PlaceBid(r.Context(), bidding.PlaceBidInput{
		ItemID:   itemID,
		BidderID: bidderID,
		Amount:   *req.Amount,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBidResponse(receipt))
}

// MinimumBid handles GET /api/v1/items/{id}/minimum-bid.
func (h *BiddingHandler) MinimumBid(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r)
	if !ok {
		return
	}

	q, err := h.svc.MinimumBid(r.Context(), itemID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, minimumBidResponse{
		ItemID:           q.ItemID.String(),
		CurrentPrice:     q.CurrentPrice.StringFixed(2),
		MinimumIncrement: q.MinimumIncrement.StringFixed(2),
		MinimumNextBid:   q.MinimumNextBid.StringFixed(2),
		ClosesAt:         q.ClosesAt,
		Open:             q.Open,
	})
}

// Quote handles GET /api/v1/pricing/minimum-bid?price=.
func (h *BiddingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("price")
	if raw == "" {
		handleError(h.log, w, r, domain.NewValidationError("price", "required"))
		return
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		handleError(h.log, w, r, domain.NewValidationError("price", "must be a decimal number"))
		return
	}
	if price.IsNegative() {
		handleError(h.log, w, r, domain.NewValidationError("price", "must not be negative"))
		return
	}

	q := h.svc.Quote(price)
	writeJSON(w, http.StatusOK, quoteResponse{
		Price:            q.Price.StringFixed(2),
		MinimumIncrement: q.MinimumIncrement.StringFixed(2),
		MinimumNextBid:   q.MinimumNextBid.StringFixed(2),
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return uuid.Nil, false
	}
	return id, true
}

func toBidResponse(rc *domain.BidReceipt) bidResponse {
	return bidResponse{
		BidID:         rc.Bid.ID.String(),
		Seq:           rc.Bid.Seq,
		ItemID:        rc.Bid.ItemID.String(),
		LotID:         rc.LotID.String(),
		BidderID:      rc.Bid.BidderID.String(),
		Amount:        rc.Bid.Amount.StringFixed(2),
		PreviousPrice: rc.PreviousPrice.StringFixed(2),
		CurrentPrice:  rc.CurrentPrice.StringFixed(2),
		NextMinimum:   rc.NextMinimum.StringFixed(2),
		ClosesAt:      rc.ClosesAt,
		Extended:      rc.Extended,
		ExtendedCount: rc.ExtendedCount,
		CreatedAt:     rc.Bid.CreatedAt,
	}
}
