package graph

import (
	"context"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/d60-Lab/gin-graphql/internal/dataloader"
	"github.com/d60-Lab/gin-graphql/internal/loader"
	"github.com/d60-Lab/gin-graphql/internal/model"
)

type types struct {
	user       *graphql.Object
	profile    *graphql.Object
	post       *graphql.Object
	memberType *graphql.Object
}

func loadersFrom(ctx context.Context) (*loader.Loaders, error) {
	l := loader.For(ctx)
	if l == nil {
		return nil, errNoLoaders
	}
	return l, nil
}

// thunk 适配 loader 的 Thunk，把带类型的 nil 指针转成 nil
func thunk[V any](th dataloader.Thunk[*V]) func() (interface{}, error) {
	return func() (interface{}, error) {
		v, err := th()
		if err != nil || v == nil {
			return nil, err
		}
		return v, nil
	}
}

func listThunk[V any](th dataloader.Thunk[[]V]) func() (interface{}, error) {
	return func() (interface{}, error) {
		v, err := th()
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// deferred 在查询中返回 thunk 以便同层字段合并批次；在 mutation 中立即取值，
// 保证每个变更字段的结果在下一个变更执行前完成
func deferred(p graphql.ResolveParams, th func() (interface{}, error)) (interface{}, error) {
	if op, ok := p.Info.Operation.(*ast.OperationDefinition); ok && op.Operation == ast.OperationTypeMutation {
		return th()
	}
	return th, nil
}

func newTypes() *types {
	t := &types{}

	t.memberType = graphql.NewObject(graphql.ObjectConfig{
		Name: "MemberType",
		Fields: graphql.Fields{
			"id":                 &graphql.Field{Type: MemberTypeID},
			"discount":           &graphql.Field{Type: graphql.Float},
			"postsLimitPerMonth": &graphql.Field{Type: graphql.Int},
		},
	})

	t.post = graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: UUID},
			"title":    &graphql.Field{Type: graphql.String},
			"content":  &graphql.Field{Type: graphql.String},
			"authorId": &graphql.Field{Type: UUID, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*model.Post).AuthorID, nil
			}},
		},
	})

	t.profile = graphql.NewObject(graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: UUID},
			"isMale":      &graphql.Field{Type: graphql.Boolean},
			"yearOfBirth": &graphql.Field{Type: graphql.Int},
			"userId": &graphql.Field{Type: UUID, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*model.Profile).UserID, nil
			}},
			"memberTypeId": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return string(p.Source.(*model.Profile).MemberTypeID), nil
			}},
			"memberType": &graphql.Field{
				Type: t.memberType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					l, err := loadersFrom(p.Context)
					if err != nil {
						return nil, err
					}
					prof := p.Source.(*model.Profile)
					return deferred(p, thunk(l.MemberTypeByID.LoadThunk(p.Context, prof.MemberTypeID)))
				},
			},
		},
	})

	t.user = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":      &graphql.Field{Type: UUID},
				"name":    &graphql.Field{Type: graphql.String},
				"balance": &graphql.Field{Type: graphql.Float},
				"profile": &graphql.Field{
					Type: t.profile,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						l, err := loadersFrom(p.Context)
						if err != nil {
							return nil, err
						}
						return deferred(p, thunk(l.ProfileByUserID.LoadThunk(p.Context, p.Source.(*model.User).ID)))
					},
				},
				"posts": &graphql.Field{
					Type: graphql.NewList(t.post),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						l, err := loadersFrom(p.Context)
						if err != nil {
							return nil, err
						}
						return deferred(p, listThunk(l.PostsByAuthorID.LoadThunk(p.Context, p.Source.(*model.User).ID)))
					},
				},
				"userSubscribedTo": &graphql.Field{
					Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.user))),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						l, err := loadersFrom(p.Context)
						if err != nil {
							return nil, err
						}
						return deferred(p, listThunk(l.SubscriptionsOf.LoadThunk(p.Context, p.Source.(*model.User).ID)))
					},
				},
				"subscribedToUser": &graphql.Field{
					Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.user))),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						l, err := loadersFrom(p.Context)
						if err != nil {
							return nil, err
						}
						return deferred(p, listThunk(l.SubscribersOf.LoadThunk(p.Context, p.Source.(*model.User).ID)))
					},
				},
			}
		}),
	})
	return t
}
