package graph

import (
	"errors"

	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-graphql/internal/model"
)

func (s *schemaBuilder) query() *graphql.Object {
	t := s.types
	idArg := graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)}}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type: graphql.NewList(t.user),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					l, err := loadersFrom(p.Context)
					if err != nil {
						return nil, err
					}
					return l.Users(p.Context, includeFor(p.Info))
				},
			},
			"user": &graphql.Field{
				Type: t.user,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					l, err := loadersFrom(p.Context)
					if err != nil {
						return nil, err
					}
					return deferred(p, thunk(l.UserByID.LoadThunk(p.Context, p.Args["id"].(string))))
				},
			},
			"profiles": &graphql.Field{
				Type: graphql.NewList(t.profile),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return s.repos.Profiles.List(p.Context)
				},
			},
			"profile": &graphql.Field{
				Type: t.profile,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					prof, err := s.repos.Profiles.GetByID(p.Context, p.Args["id"].(string))
					return orNil(prof, err)
				},
			},
			"posts": &graphql.Field{
				Type: graphql.NewList(t.post),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return s.repos.Posts.List(p.Context)
				},
			},
			"post": &graphql.Field{
				Type: t.post,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					post, err := s.repos.Posts.GetByID(p.Context, p.Args["id"].(string))
					return orNil(post, err)
				},
			},
			"memberTypes": &graphql.Field{
				Type: graphql.NewList(t.memberType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return s.repos.MemberTypes.List(p.Context)
				},
			},
			"memberType": &graphql.Field{
				Type: t.memberType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(MemberTypeID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					l, err := loadersFrom(p.Context)
					if err != nil {
						return nil, err
					}
					return deferred(p, thunk(l.MemberTypeByID.LoadThunk(p.Context, p.Args["id"].(model.MemberTypeID))))
				},
			},
		},
	})
}

// orNil 记录不存在时返回 null 而不是错误
func orNil[V any](v *V, err error) (interface{}, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil || v == nil {
		return nil, err
	}
	return v, nil
}
