package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/heartmarshall/lotbid-backend/internal/transport/graphql/resolver"
)

const maxBodyBytes = 64 << 10

// Handler serves GraphQL requests sent as JSON over POST. The per-request
// loaders must already be on the context (see dataloader.Middleware).
type Handler struct {
	schema    *ast.Schema
	resolvers *resolver.Resolver
	presenter graphql.ErrorPresenterFunc
}

// NewHandler creates a Handler for the embedded schema.
func NewHandler(r *resolver.Resolver, log *slog.Logger) *Handler {
	return &Handler{
		schema:    Schema(),
		resolvers: r,
		presenter: NewErrorPresenter(log.With("handler", "graphql")),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeResponse(w, http.StatusMethodNotAllowed, errorResponse(gqlerror.Errorf("only POST requests are supported")))
		return
	}

	var params graphql.RawParams
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		writeResponse(w, http.StatusBadRequest, errorResponse(gqlerror.Errorf("json request body could not be decoded: %s", err)))
		return
	}

	resp, status := h.Execute(r.Context(), &params)
	writeResponse(w, status, resp)
}

// Execute runs one operation and returns the response with the HTTP status
// to send. Documents that fail to parse or validate, and bad variables, are
// answered with 422 and no data; field errors leave the status at 200.
func (h *Handler) Execute(ctx context.Context, p *graphql.RawParams) (*graphql.Response, int) {
	doc, errs := gqlparser.LoadQuery(h.schema, p.Query)
	if len(errs) > 0 {
		return &graphql.Response{Errors: errs}, http.StatusUnprocessableEntity
	}

	op := doc.Operations.ForName(p.OperationName)
	if op == nil {
		if p.OperationName == "" {
			return errorResponse(gqlerror.Errorf("operationName is required when the document has several operations")), http.StatusUnprocessableEntity
		}
		return errorResponse(gqlerror.Errorf("operation %s not found", p.OperationName)), http.StatusUnprocessableEntity
	}

	if op.Operation == ast.Subscription {
		return errorResponse(gqlerror.Errorf("subscriptions are not supported")), http.StatusUnprocessableEntity
	}

	vars, err := validator.VariableValues(h.schema, op, p.Variables)
	if err != nil {
		var gqlErr *gqlerror.Error
		if !errors.As(err, &gqlErr) {
			gqlErr = gqlerror.Wrap(err)
		}
		return errorResponse(gqlErr), http.StatusUnprocessableEntity
	}

	oc := &graphql.OperationContext{
		RawQuery:      p.Query,
		Variables:     vars,
		OperationName: op.Name,
		Doc:           doc,
		Operation:     op,
	}
	ctx = graphql.WithOperationContext(ctx, oc)

	ec := &executionContext{op: oc, resolvers: h.resolvers, presenter: h.presenter}
	data := ec.run(ctx)
	return &graphql.Response{Data: data, Errors: ec.errorList()}, http.StatusOK
}

func errorResponse(err *gqlerror.Error) *graphql.Response {
	return &graphql.Response{Errors: gqlerror.List{err}}
}

func writeResponse(w http.ResponseWriter, status int, resp *graphql.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}
