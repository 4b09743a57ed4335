package gql

import (
	"context"

	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/cropdev/crop-backend/api/responses"
	"github.com/cropdev/crop-backend/pkg/logger"
)

var _ gqlerrors.ExtendedError = (*resolverError)(nil)

// resolverError is what resolvers hand back to graphql-go. The message is
// already localized and extensions carry the stable code.
type resolverError struct {
	message    string
	extensions map[string]interface{}
	cause      error
}

func (e *resolverError) Error() string { return e.message }

func (e *resolverError) Extensions() map[string]interface{} { return e.extensions }

func (e *resolverError) Unwrap() error { return e.cause }

// publicError logs err and converts it into a resolver error. Map details
// are flattened into the extensions so duplicate and foreign key failures
// expose fields/field next to the code.
func publicError(ctx context.Context, logg *logger.Logger, err error) error {
	if err == nil {
		return nil
	}
	responses.LogError(ctx, logg, err)

	payload, _ := responses.PublicError(ctx, err)
	ext := map[string]interface{}{"code": payload.Code}
	switch details := payload.Details.(type) {
	case nil:
	case map[string]any:
		for k, v := range details {
			if k == "code" {
				continue
			}
			ext[k] = v
		}
	default:
		ext["details"] = details
	}
	return &resolverError{message: payload.Message, extensions: ext, cause: err}
}
