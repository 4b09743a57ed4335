package gql

import (
	"github.com/graphql-go/graphql"

	"github.com/cropdev/crop-backend/api/middleware"
	"github.com/cropdev/crop-backend/internal/users"
	"github.com/cropdev/crop-backend/pkg/db/models"
	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
	"github.com/cropdev/crop-backend/pkg/pagination"
)

func (r *Resolver) userObject(t *types) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":          &graphql.Field{Type: graphql.String},
			"email":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"emailVerified": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"image":         &graphql.Field{Type: graphql.String},
			"role":          &graphql.Field{Type: graphql.NewNonNull(t.role)},
			"createdAt":     &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt":     &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"capabilities": &graphql.Field{
				Type: graphql.NewNonNull(t.capabilities),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					u, ok := p.Source.(*models.User)
					if !ok {
						return nil, nil
					}
					return u.Role.Capabilities(), nil
				},
			},
		},
	})
}

func (r *Resolver) userFields(t *types, query, mutation graphql.Fields) {
	profileFields := graphql.InputObjectConfigFieldMap{
		"name":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"image": &graphql.InputObjectFieldConfig{Type: graphql.String},
	}
	updateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name:   "UpdateUserInput",
		Fields: profileFields,
	})
	adminInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AdminUpdateUserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":  profileFields["name"],
			"image": profileFields["image"],
			"role":  &graphql.InputObjectFieldConfig{Type: t.role},
		},
	})
	idArg := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}

	query["me"] = &graphql.Field{
		Type: t.user,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			u, err := r.Users.Me(p.Context, middleware.ActorFromContext(p.Context))
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			if u == nil {
				return nil, nil
			}
			return u, nil
		},
	}

	query["users"] = &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.user))),
		Args: graphql.FieldConfigArgument{
			"take":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: pagination.DefaultTake},
			"skip":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
			"search": &graphql.ArgumentConfig{Type: graphql.String},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			list, err := r.Users.List(p.Context, middleware.ActorFromContext(p.Context), pagination.Params{
				Take:   optionalInt(p.Args, "take"),
				Skip:   optionalInt(p.Args, "skip"),
				Search: optionalString(p.Args, "search"),
			})
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			out := make([]*models.User, 0, len(list))
			for i := range list {
				out = append(out, &list[i])
			}
			return out, nil
		},
	}

	query["user"] = &graphql.Field{
		Type: t.user,
		Args: idArg,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, err := parseID(p.Args["id"], "id")
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			u, err := r.Users.Get(p.Context, middleware.ActorFromContext(p.Context), id)
			if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			return u, nil
		},
	}

	mutation["updateMe"] = &graphql.Field{
		Type: graphql.NewNonNull(t.user),
		Args: graphql.FieldConfigArgument{
			"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateInput)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			u, err := r.Users.UpdateMe(p.Context, middleware.ActorFromContext(p.Context), profileInput(inputMap(p.Args)))
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			return u, nil
		},
	}

	mutation["deleteMe"] = &graphql.Field{
		Type: graphql.NewNonNull(t.user),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			u, err := r.Users.DeleteMe(p.Context, middleware.ActorFromContext(p.Context))
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			return u, nil
		},
	}

	mutation["updateUser"] = &graphql.Field{
		Type: graphql.NewNonNull(t.user),
		Args: graphql.FieldConfigArgument{
			"id":    idArg["id"],
			"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(adminInput)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, err := parseID(p.Args["id"], "id")
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			in := inputMap(p.Args)
			u, err := r.Users.UpdateUser(p.Context, middleware.ActorFromContext(p.Context), id, users.AdminUpdateInput{
				ProfileInput: profileInput(in),
				Role:         optionalRole(in, "role"),
			})
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			return u, nil
		},
	}

	mutation["deleteUser"] = &graphql.Field{
		Type: graphql.NewNonNull(t.user),
		Args: idArg,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			id, err := parseID(p.Args["id"], "id")
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			u, err := r.Users.DeleteUser(p.Context, middleware.ActorFromContext(p.Context), id)
			if err != nil {
				return nil, publicError(p.Context, r.Logger, err)
			}
			return u, nil
		},
	}
}

func profileInput(in map[string]interface{}) users.ProfileInput {
	return users.ProfileInput{
		Name:  optionalString(in, "name"),
		Image: optionalString(in, "image"),
	}
}
