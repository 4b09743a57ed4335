package gql

import (
	"github.com/graphql-go/graphql"

	"github.com/cropdev/crop-backend/api/middleware"
	"github.com/cropdev/crop-backend/internal/posts"
	"github.com/cropdev/crop-backend/pkg/db/models"
	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
	"github.com/cropdev/crop-backend/pkg/pagination"
)

func (r *Resolver) postObject(t *types) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"createdAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"author": &graphql.Field{
				Type: graphql.NewNonNull(t.user),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					post, ok := p.Source.(*models.Post)
					if !ok {
						return nil, nil
					}
					u, err := r.Users.FindByID(p.Context, post.AuthorID)
					if err != nil {
						return nil, publicError(p.Context, r.Logger, err)
					}
					return u, nil
				},
			},
			"media": &graphql.Field{
				Type: t.media,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					post, ok := p.Source.(*models.Post)
					if !ok || post.MediaID == nil {
						return nil, nil
					}
					m, err := r.Media.Get(p.Context, *post.MediaID)
					if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, publicError(p.Context, r.Logger, err)
					}
					return m, nil
				},
			},
		},
	})
}

func (r *Resolver) postFields(t *types, query, mutation graphql.Fields) {
	createInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreatePostInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"mediaId":     &graphql.InputObjectFieldConfig{Type: graphql.ID},
		},
	})
	updateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdatePostInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"mediaId":     &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"removeMedia": &graphql.InputObjectFieldConfig{
				Type:        graphql.Boolean,
				Description: "Detach the current media. Ignored when mediaId is set.",
			},
		},
	})
	idArg := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}

	query["posts"] = &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.post))),
		Args: graphql.FieldConfigArgument{
			"take":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: pagination.DefaultTake},
			"skip":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
			"search": &graphql.ArgumentConfig{Type: graphql.String},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			list, err := r.Posts.List(p.Context, pagination.Params{
				Take:   optionalInt(p.Args, "take"),
				Skip:   optionalInt(p.Args, "skip"),
				Search: optionalString(p.Args, "search"),
			})
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			out := make([]*models.Post, 0, len(list))
			for i := range list {
				out = append(out, &list[i])
			}
			return out, nil
		},
	}

	query["post"] = &graphql.Field{
		Type: t.post,
		Args: idArg,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, err := parseID(p.Args["id"], "id")
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			post, err := r.Posts.Get(p.Context, id)
			if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			return post, nil
		},
	}

	mutation["createPost"] = &graphql.Field{
		Type: graphql.NewNonNull(t.post),
		Args: graphql.FieldConfigArgument{
			"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createInput)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			in := inputMap(p.Args)
			mediaID, err := optionalID(in, "mediaId")
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			input := posts.CreateInput{
				Description: optionalString(in, "description"),
				MediaID:     mediaID,
			}
			input.Title, _ = in["title"].(string)

			post, err := r.Posts.Create(p.Context, middleware.ActorFromContext(p.Context), input)
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			return post, nil
		},
	}

	mutation["updatePost"] = &graphql.Field{
		Type: graphql.NewNonNull(t.post),
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
			mediaID, err := optionalID(in, "mediaId")
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			remove, _ := in["removeMedia"].(bool)

			post, err := r.Posts.Update(p.Context, middleware.ActorFromContext(p.Context), id, posts.UpdateInput{
				Title:       optionalString(in, "title"),
				Description: optionalString(in, "description"),
				MediaID:     mediaID,
				ClearMedia:  remove && mediaID == nil,
			})
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			return post, nil
		},
	}

	mutation["deletePost"] = &graphql.Field{
		Type: graphql.NewNonNull(t.post),
		Args: idArg,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, err := parseID(p.Args["id"], "id")
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			post, err := r.Posts.Delete(p.Context, middleware.ActorFromContext(p.Context), id)
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			return post, nil
		},
	}
}
