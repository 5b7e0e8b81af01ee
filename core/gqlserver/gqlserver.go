// Package gqlserver provides a GraphQL server.
// It is a singleton and is initialized via init() functions.
package gqlserver

import (
	"context"
	"net/http"

	"github.com/bhoriuchi/graphql-go-tools/handler"
	"github.com/graphql-go/graphql"
	"github.com/usnistgov/nshsfc/core/logging"
	"github.com/usnistgov/nshsfc/core/version"
	"go.uber.org/zap"
)

var logger = logging.New("gqlserver")

// Schema is the singleton of graphql.SchemaConfig.
var Schema = graphql.SchemaConfig{
	Query: graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: graphql.Fields{},
	}),
	Mutation: graphql.NewObject(graphql.ObjectConfig{
		Name:   "Mutation",
		Fields: graphql.Fields{},
	}),
	Subscription: graphql.NewObject(graphql.ObjectConfig{
		Name:   "Subscription",
		Fields: graphql.Fields{},
	}),
}

// Mutation and Subscription are omitted from compiled schema while they have no fields.
var nMutations, nSubscriptions int

// AddQuery adds a top-level query field.
func AddQuery(f *graphql.Field) {
	Schema.Query.AddFieldConfig(f.Name, f)
}

// AddMutation adds a top-level mutation field.
func AddMutation(f *graphql.Field) {
	Schema.Mutation.AddFieldConfig(f.Name, f)
	nMutations++
}

// AddSubscription adds a top-level subscription field.
func AddSubscription(f *graphql.Field) {
	Schema.Subscription.AddFieldConfig(f.Name, f)
	nSubscriptions++
}

func init() {
	AddQuery(&graphql.Field{
		Name:        "version",
		Description: "Version information.",
		Type:        NonNullJSON,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			return version.V, nil
		},
	})
}

// NewSchema compiles the schema singleton.
// This should be called after all init() functions have added their fields.
func NewSchema() (*graphql.Schema, error) {
	cfg := Schema
	if nMutations == 0 {
		cfg.Mutation = nil
	}
	if nSubscriptions == 0 {
		cfg.Subscription = nil
	}

	sch, e := graphql.NewSchema(cfg)
	if e != nil {
		return nil, e
	}
	return &sch, nil
}

// Do executes a GraphQL request against a compiled schema.
func Do(ctx context.Context, sch *graphql.Schema, query string, vars map[string]any) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         *sch,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

// Handler creates an HTTP handler that serves the schema singleton.
func Handler() (http.Handler, error) {
	sch, e := NewSchema()
	if e != nil {
		logger.Error("graphql.NewSchema error", zap.Error(e))
		return nil, e
	}

	h := handler.New(&handler.Config{
		Schema:           sch,
		Pretty:           true,
		PlaygroundConfig: handler.NewDefaultPlaygroundConfig(),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Add("Content-Type", "text/plain")
		w.Write([]byte("User-Agent: *\nDisallow: /\n"))
	})
	mux.Handle("/", h)
	return mux, nil
}
