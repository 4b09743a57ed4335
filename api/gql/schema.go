// Package gql exposes media, posts and users over GraphQL.
package gql

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/handler"

	"github.com/cropdev/crop-backend/api/responses"
	"github.com/cropdev/crop-backend/internal/media"
	"github.com/cropdev/crop-backend/internal/posts"
	"github.com/cropdev/crop-backend/internal/users"
	"github.com/cropdev/crop-backend/pkg/enums"
	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
	"github.com/cropdev/crop-backend/pkg/logger"
)

// Resolver holds the services every field resolves against.
type Resolver struct {
	Media  media.Service
	Posts  posts.Service
	Users  users.Service
	Logger *logger.Logger
}

// types are built per schema so tests can construct several side by side.
type types struct {
	mediaType    *graphql.Enum
	role         *graphql.Enum
	capabilities *graphql.Object
	user         *graphql.Object
	media        *graphql.Object
	post         *graphql.Object
}

// NewSchema builds the executable schema bound to r.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	if r == nil || r.Media == nil || r.Posts == nil || r.Users == nil {
		return graphql.Schema{}, fmt.Errorf("media, posts and users services required")
	}

	t := &types{
		mediaType: enumOf("MediaType", mediaTypeValues()),
		role:      enumOf("Role", roleValues()),
	}
	t.capabilities = graphql.NewObject(graphql.ObjectConfig{
		Name: "Capabilities",
		Fields: graphql.Fields{
			"public":       &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"collaborator": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"admin":        &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		},
	})
	t.user = r.userObject(t)
	t.media = r.mediaObject(t)
	t.post = r.postObject(t)

	query := graphql.Fields{}
	mutation := graphql.Fields{}
	for _, add := range []func(*types, graphql.Fields, graphql.Fields){
		r.mediaFields,
		r.postFields,
		r.userFields,
	} {
		add(t, query, mutation)
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    graphql.NewObject(graphql.ObjectConfig{Name: "Query", Fields: query}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{Name: "Mutation", Fields: mutation}),
	})
}

// NewHandler serves schema over GET and POST. GET only runs queries; a
// mutation sent that way is rejected before execution. The playground is for
// development only.
func NewHandler(schema *graphql.Schema, playground bool, logg *logger.Logger) http.Handler {
	h := handler.New(&handler.Config{
		Schema:     schema,
		Pretty:     false,
		Playground: playground,
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && selectsMutation(handler.NewRequestOptions(r)) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeBadRequest, "mutations must be sent with POST"))
			return
		}
		h.ServeHTTP(w, r)
	})
}

// selectsMutation reports whether the operation the request would execute is
// a mutation. Unparseable documents are left to the executor to report.
func selectsMutation(opts *handler.RequestOptions) bool {
	if opts == nil || strings.TrimSpace(opts.Query) == "" {
		return false
	}
	doc, err := parser.Parse(parser.ParseParams{Source: opts.Query})
	if err != nil {
		return false
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok || op.Operation != ast.OperationTypeMutation {
			continue
		}
		if opts.OperationName == "" || (op.Name != nil && op.Name.Value == opts.OperationName) {
			return true
		}
	}
	return false
}

func enumOf(name string, values graphql.EnumValueConfigMap) *graphql.Enum {
	return graphql.NewEnum(graphql.EnumConfig{Name: name, Values: values})
}

func mediaTypeValues() graphql.EnumValueConfigMap {
	values := graphql.EnumValueConfigMap{}
	for _, mt := range enums.MediaTypes() {
		values[mt.String()] = &graphql.EnumValueConfig{Value: mt}
	}
	return values
}

func roleValues() graphql.EnumValueConfigMap {
	return graphql.EnumValueConfigMap{
		enums.RolePublic.String():       &graphql.EnumValueConfig{Value: enums.RolePublic},
		enums.RoleCollaborator.String(): &graphql.EnumValueConfig{Value: enums.RoleCollaborator},
		enums.RoleAdmin.String():        &graphql.EnumValueConfig{Value: enums.RoleAdmin},
	}
}
