package gql

import (
	"github.com/graphql-go/graphql"

	"github.com/cropdev/crop-backend/api/middleware"
	"github.com/cropdev/crop-backend/internal/media"
	"github.com/cropdev/crop-backend/pkg/db/models"
	"github.com/cropdev/crop-backend/pkg/enums"
	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
	"github.com/cropdev/crop-backend/pkg/pagination"
)

func (r *Resolver) mediaObject(t *types) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Media",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"objectKey": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"url":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"alt":       &graphql.Field{Type: graphql.String},
			"type":      &graphql.Field{Type: graphql.NewNonNull(t.mediaType)},
			"size":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"mimeType":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"filename":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"uploader": &graphql.Field{
				Type: t.user,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					m, ok := p.Source.(*models.Media)
					if !ok || m.UploadedBy == nil {
						return nil, nil
					}
					u, err := r.Users.FindByID(p.Context, *m.UploadedBy)
					if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, publicError(p.Context, r.Logger, err)
					}
					return u, nil
				},
			},
			"signedUrl": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Args: graphql.FieldConfigArgument{
					"expiresIn": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					m, ok := p.Source.(*models.Media)
					if !ok {
						return nil, nil
					}
					expires, _ := p.Args["expiresIn"].(int)
					url, err := r.Media.SignedURL(p.Context, m, expires)
					if err != nil {
						return nil, publicError(p.Context, r.Logger, err)
					}
					return url, nil
				},
			},
		},
	})
}

func (r *Resolver) mediaFields(t *types, query, mutation graphql.Fields) {
	createInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateMediaInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"objectKey": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"url":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"alt":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"type":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(t.mediaType)},
			"size":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"mimeType":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"filename":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
	updateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateMediaInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"alt": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"url": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	// Media operations take plain strings for id and type; existing clients declare
	// $id: String! and $type: String.
	idArg := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	query["medias"] = &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.media))),
		Args: graphql.FieldConfigArgument{
			"take":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: pagination.DefaultTake},
			"skip":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
			"type":   &graphql.ArgumentConfig{Type: graphql.String},
			"search": &graphql.ArgumentConfig{Type: graphql.String},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			mediaType, err := optionalMediaType(p.Args, "type")
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			list, err := r.Media.List(p.Context, media.ListParams{
				Take:   optionalInt(p.Args, "take"),
				Skip:   optionalInt(p.Args, "skip"),
				Type:   mediaType,
				Search: optionalString(p.Args, "search"),
			})
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			out := make([]*models.Media, 0, len(list))
			for i := range list {
				out = append(out, &list[i])
			}
			return out, nil
		},
	}

	query["media"] = &graphql.Field{
		Type: t.media,
		Args: idArg,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, err := parseID(p.Args["id"], "id")
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			m, err := r.Media.Get(p.Context, id)
			if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			return m, nil
		},
	}

	mutation["createMedia"] = &graphql.Field{
		Type: graphql.NewNonNull(t.media),
		Args: graphql.FieldConfigArgument{
			"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createInput)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			in := inputMap(p.Args)
			input := media.CreateInput{Alt: optionalString(in, "alt")}
			input.ObjectKey, _ = in["objectKey"].(string)
			input.URL, _ = in["url"].(string)
			input.Type, _ = in["type"].(enums.MediaType)
			input.MimeType, _ = in["mimeType"].(string)
			input.Filename, _ = in["filename"].(string)
			if size, ok := in["size"].(int); ok {
				input.Size = int64(size)
			}

			m, err := r.Media.Create(p.Context, middleware.ActorFromContext(p.Context), input)
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			return m, nil
		},
	}

	mutation["updateMedia"] = &graphql.Field{
		Type: graphql.NewNonNull(t.media),
		Args: graphql.FieldConfigArgument{
			"id":    idArg["id"],
			"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateInput)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, err := parseID(p.Args["id"], "id")
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			in := inputMap(p.Args)
			m, err := r.Media.Update(p.Context, middleware.ActorFromContext(p.Context), id, media.UpdateInput{
				Alt: optionalString(in, "alt"),
				URL: optionalString(in, "url"),
			})
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			return m, nil
		},
	}

	mutation["deleteMedia"] = &graphql.Field{
		Type: graphql.NewNonNull(t.media),
		Args: idArg,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, err := parseID(p.Args["id"], "id")
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			m, err := r.Media.Delete(p.Context, middleware.ActorFromContext(p.Context), id)
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			return m, nil
		},
	}
}
