package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
	"github.com/heartmarshall/lotbid-backend/internal/service/bidding"
	"github.com/heartmarshall/lotbid-backend/internal/service/bidding/pricing"
	"github.com/heartmarshall/lotbid-backend/internal/transport/graphql/resolver"
)

// maxItemIDs bounds minimumBids to one loader batch.
const maxItemIDs = 100

var (
	queryImplementors      = []string{"Query"}
	mutationImplementors   = []string{"Mutation"}
	minimumBidImplementors = []string{"MinimumBid"}
	priceQuoteImplementors = []string{"PriceQuote"}
	bidReceiptImplementors = []string{"BidReceipt"}
)

// executionContext carries one operation through execution and collects the
// field errors it produces.
type executionContext struct {
	op        *graphql.OperationContext
	resolvers *resolver.Resolver
	presenter graphql.ErrorPresenterFunc

	mu     sync.Mutex
	errors gqlerror.List
}

func (ec *executionContext) run(ctx context.Context) json.RawMessage {
	var root graphql.Marshaler
	switch ec.op.Operation.Operation {
	case ast.Query:
		root = ec._Query(ctx, ec.op.Operation.SelectionSet)
	case ast.Mutation:
		root = ec._Mutation(ctx, ec.op.Operation.SelectionSet)
	default:
		ec.addError(ctx, nil, gqlerror.Errorf("%s operations are not supported", ec.op.Operation.Operation))
		return nil
	}

	var buf bytes.Buffer
	root.MarshalGQL(&buf)
	return buf.Bytes()
}

func (ec *executionContext) addError(ctx context.Context, path ast.Path, err error) {
	gqlErr := ec.presenter(ctx, err)
	if len(gqlErr.Path) == 0 {
		gqlErr.Path = path
	}

	ec.mu.Lock()
	ec.errors = append(ec.errors, gqlErr)
	ec.mu.Unlock()
}

func (ec *executionContext) errorList() gqlerror.List {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.errors
}

// resolveField runs resolve for one field and records its error. A failed
// non-null field reports ok=false so that the caller nulls the parent.
func (ec *executionContext) resolveField(
	ctx context.Context,
	path ast.Path,
	nonNull bool,
	resolve func(ctx context.Context) (graphql.Marshaler, error),
) (res graphql.Marshaler, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ec.addError(ctx, path, fmt.Errorf("resolver panic: %v", r))
			res, ok = graphql.Null, !nonNull
		}
	}()

	m, err := resolve(ctx)
	if err != nil {
		ec.addError(ctx, path, err)
		return graphql.Null, !nonNull
	}
	return m, true
}

// ---------------------------------------------------------------------------
// Root types
// ---------------------------------------------------------------------------

// _Query resolves root query fields concurrently, so that sibling lookups
// land in the same loader batch.
func (ec *executionContext) _Query(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.op, sel, queryImplementors)
	out := graphql.NewFieldSet(fields)

	var (
		wg      sync.WaitGroup
		invalid atomic.Bool
	)
	for i, field := range fields {
		out.Values[i] = graphql.Null
		if field.Name == "__typename" {
			out.Values[i] = graphql.MarshalString("Query")
			continue
		}

		wg.Add(1)
		go func(i int, field graphql.CollectedField) {
			defer wg.Done()
			v, ok := ec.queryField(ctx, field)
			out.Values[i] = v
			if !ok {
				invalid.Store(true)
			}
		}(i, field)
	}
	wg.Wait()

	if invalid.Load() {
		return graphql.Null
	}
	return out
}

func (ec *executionContext) queryField(ctx context.Context, field graphql.CollectedField) (graphql.Marshaler, bool) {
	path := ast.Path{ast.PathName(field.Alias)}
	args := field.ArgumentMap(ec.op.Variables)

	switch field.Name {
	case "minimumBid":
		return ec.resolveField(ctx, path, false, func(ctx context.Context) (graphql.Marshaler, error) {
			itemID, err := unmarshalID("itemId", args["itemId"])
			if err != nil {
				return nil, err
			}
			q, err := ec.resolvers.MinimumBid(ctx, itemID)
			if err != nil {
				return nil, err
			}
			return ec._MinimumBid(field.Selections, q), nil
		})

	case "minimumBids":
		return ec.resolveField(ctx, path, true, func(ctx context.Context) (graphql.Marshaler, error) {
			itemIDs, err := unmarshalIDs("itemIds", args["itemIds"])
			if err != nil {
				return nil, err
			}
			quotes, errs := ec.resolvers.MinimumBids(ctx, itemIDs)

			arr := make(graphql.Array, len(quotes))
			for i := range quotes {
				if errs[i] != nil {
					ec.addError(ctx, ast.Path{ast.PathName(field.Alias), ast.PathIndex(i)}, errs[i])
					arr[i] = graphql.Null
					continue
				}
				arr[i] = ec._MinimumBid(field.Selections, quotes[i])
			}
			return arr, nil
		})

	case "quote":
		return ec.resolveField(ctx, path, true, func(ctx context.Context) (graphql.Marshaler, error) {
			price, err := unmarshalDecimal("price", args["price"])
			if err != nil {
				return nil, err
			}
			q, err := ec.resolvers.Quote(ctx, price)
			if err != nil {
				return nil, err
			}
			return ec._PriceQuote(field.Selections, q), nil
		})
	}

	return graphql.Null, true
}

// _Mutation resolves root mutation fields one after another.
func (ec *executionContext) _Mutation(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.op, sel, mutationImplementors)
	out := graphql.NewFieldSet(fields)

	invalid := false
	for i, field := range fields {
		out.Values[i] = graphql.Null

		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Mutation")

		case "placeBid":
			args := field.ArgumentMap(ec.op.Variables)
			v, ok := ec.resolveField(ctx, ast.Path{ast.PathName(field.Alias)}, true, func(ctx context.Context) (graphql.Marshaler, error) {
				itemID, err := unmarshalID("itemId", args["itemId"])
				if err != nil {
					return nil, err
				}
				amount, err := unmarshalDecimal("amount", args["amount"])
				if err != nil {
					return nil, err
				}
				rc, err := ec.resolvers.PlaceBid(ctx, itemID, amount)
				if err != nil {
					return nil, err
				}
				return ec._BidReceipt(field.Selections, rc), nil
			})
			out.Values[i] = v
			invalid = invalid || !ok
		}
	}

	if invalid {
		return graphql.Null
	}
	return out
}

// ---------------------------------------------------------------------------
// Object types
// ---------------------------------------------------------------------------

func (ec *executionContext) _MinimumBid(sel ast.SelectionSet, q *bidding.MinimumBidQuote) graphql.Marshaler {
	if q == nil {
		return graphql.Null
	}

	fields := graphql.CollectFields(ec.op, sel, minimumBidImplementors)
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("MinimumBid")
		case "itemId":
			out.Values[i] = graphql.MarshalID(q.ItemID.String())
		case "currentPrice":
			out.Values[i] = marshalDecimal(q.CurrentPrice)
		case "minimumIncrement":
			out.Values[i] = marshalDecimal(q.MinimumIncrement)
		case "minimumNextBid":
			out.Values[i] = marshalDecimal(q.MinimumNextBid)
		case "closesAt":
			out.Values[i] = marshalTimePtr(q.ClosesAt)
		case "open":
			out.Values[i] = graphql.MarshalBoolean(q.Open)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) _PriceQuote(sel ast.SelectionSet, q *bidding.PriceQuote) graphql.Marshaler {
	fields := graphql.CollectFields(ec.op, sel, priceQuoteImplementors)
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("PriceQuote")
		case "price":
			out.Values[i] = marshalDecimal(q.Price)
		case "minimumIncrement":
			out.Values[i] = marshalDecimal(q.MinimumIncrement)
		case "minimumNextBid":
			out.Values[i] = marshalDecimal(q.MinimumNextBid)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) _BidReceipt(sel ast.SelectionSet, rc *domain.BidReceipt) graphql.Marshaler {
	fields := graphql.CollectFields(ec.op, sel, bidReceiptImplementors)
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("BidReceipt")
		case "bidId":
			out.Values[i] = graphql.MarshalID(rc.Bid.ID.String())
		case "seq":
			out.Values[i] = graphql.MarshalInt64(rc.Bid.Seq)
		case "itemId":
			out.Values[i] = graphql.MarshalID(rc.Bid.ItemID.String())
		case "lotId":
			out.Values[i] = graphql.MarshalID(rc.LotID.String())
		case "bidderId":
			out.Values[i] = graphql.MarshalID(rc.Bid.BidderID.String())
		case "amount":
			out.Values[i] = marshalDecimal(rc.Bid.Amount)
		case "previousPrice":
			out.Values[i] = marshalDecimal(rc.PreviousPrice)
		case "currentPrice":
			out.Values[i] = marshalDecimal(rc.CurrentPrice)
		case "nextMinimum":
			out.Values[i] = marshalDecimal(rc.NextMinimum)
		case "closesAt":
			out.Values[i] = graphql.MarshalTime(rc.ClosesAt)
		case "extended":
			out.Values[i] = graphql.MarshalBoolean(rc.Extended)
		case "extendedCount":
			out.Values[i] = graphql.MarshalInt(rc.ExtendedCount)
		case "createdAt":
			out.Values[i] = graphql.MarshalTime(rc.Bid.CreatedAt)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Scalars
// ---------------------------------------------------------------------------

func marshalDecimal(v decimal.Decimal) graphql.Marshaler {
	return graphql.MarshalString(v.StringFixed(pricing.Scale))
}

func marshalTimePtr(t *time.Time) graphql.Marshaler {
	if t == nil {
		return graphql.Null
	}
	return graphql.MarshalTime(*t)
}

func unmarshalID(name string, v any) (uuid.UUID, error) {
	s, ok := v.(string)
	if !ok {
		return uuid.Nil, domain.NewValidationError(name, "must be a UUID")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, "must be a UUID")
	}
	return id, nil
}

func unmarshalIDs(name string, v any) ([]uuid.UUID, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, domain.NewValidationError(name, "must be a list of UUIDs")
	}
	if len(raw) > maxItemIDs {
		return nil, domain.NewValidationError(name, fmt.Sprintf("must not contain more than %d ids", maxItemIDs))
	}

	ids := make([]uuid.UUID, len(raw))
	for i, r := range raw {
		id, err := unmarshalID(fmt.Sprintf("%s[%d]", name, i), r)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// unmarshalDecimal accepts a Decimal given as a string, an integer or a
// float, from a literal or a variable.
func unmarshalDecimal(name string, v any) (decimal.Decimal, error) {
	var (
		d   decimal.Decimal
		err error
	)
	switch v := v.(type) {
	case string:
		d, err = decimal.NewFromString(v)
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case int64:
		d = decimal.NewFromInt(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case float64:
		d, err = pricing.FromFloat(v)
	default:
		err = errors.New("unsupported value")
	}
	if err != nil {
		return decimal.Zero, domain.NewValidationError(name, "must be a decimal number")
	}
	return d, nil
}
