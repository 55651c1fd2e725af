package graph

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/d60-Lab/gin-graphql/internal/model"
	"github.com/d60-Lab/gin-graphql/internal/service"
)

func (s *schemaBuilder) inputs() (createUser, changeUser, createPost, changePost, createProfile, changeProfile *graphql.InputObject) {
	field := func(t graphql.Input) *graphql.InputObjectFieldConfig {
		return &graphql.InputObjectFieldConfig{Type: t}
	}
	createUser = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateUserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":    field(graphql.NewNonNull(graphql.String)),
			"balance": field(graphql.NewNonNull(graphql.Float)),
		},
	})
	changeUser = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ChangeUserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":    field(graphql.String),
			"balance": field(graphql.Float),
		},
	})
	createPost = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreatePostInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":    field(graphql.NewNonNull(graphql.String)),
			"content":  field(graphql.NewNonNull(graphql.String)),
			"authorId": field(graphql.NewNonNull(UUID)),
		},
	})
	changePost = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ChangePostInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":   field(graphql.String),
			"content": field(graphql.String),
		},
	})
	createProfile = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateProfileInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"userId":       field(graphql.NewNonNull(UUID)),
			"isMale":       field(graphql.NewNonNull(graphql.Boolean)),
			"yearOfBirth":  field(graphql.NewNonNull(graphql.Int)),
			"memberTypeId": field(graphql.NewNonNull(MemberTypeID)),
		},
	})
	changeProfile = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ChangeProfileInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"isMale":       field(graphql.Boolean),
			"yearOfBirth":  field(graphql.Int),
			"memberTypeId": field(MemberTypeID),
		},
	})
	return
}

// dto 读取 input object 参数的字段
type dto map[string]interface{}

func (d dto) has(k string) bool {
	v, ok := d[k]
	return ok && v != nil
}

func (d dto) str(k string) string {
	v, _ := d[k].(string)
	return v
}

func (d dto) float(k string) float64 {
	v, _ := d[k].(float64)
	return v
}

func (d dto) integer(k string) int {
	v, _ := d[k].(int)
	return v
}

func (d dto) boolean(k string) bool {
	v, _ := d[k].(bool)
	return v
}

func (d dto) optStr(k string) *string    { return opt(d, k, d.str) }
func (d dto) optFloat(k string) *float64 { return opt(d, k, d.float) }
func (d dto) optInt(k string) *int       { return opt(d, k, d.integer) }
func (d dto) optBool(k string) *bool     { return opt(d, k, d.boolean) }

func opt[V any](d dto, k string, get func(string) V) *V {
	if !d.has(k) {
		return nil
	}
	v := get(k)
	return &v
}

func (d dto) memberType(k string) *model.MemberTypeID {
	if !d.has(k) {
		return nil
	}
	v, _ := d[k].(model.MemberTypeID)
	return &v
}

func argDTO(p graphql.ResolveParams) dto {
	m, _ := p.Args["dto"].(map[string]interface{})
	return dto(m)
}

func (s *schemaBuilder) mutation() *graphql.Object {
	t := s.types
	svc := s.services
	createUserIn, changeUserIn, createPostIn, changePostIn, createProfileIn, changeProfileIn := s.inputs()

	id := &graphql.ArgumentConfig{Type: graphql.NewNonNull(UUID)}
	withDTO := func(in *graphql.InputObject) graphql.FieldConfigArgument {
		return graphql.FieldConfigArgument{"dto": &graphql.ArgumentConfig{Type: graphql.NewNonNull(in)}}
	}
	withIDAndDTO := func(in *graphql.InputObject) graphql.FieldConfigArgument {
		return graphql.FieldConfigArgument{"id": id, "dto": &graphql.ArgumentConfig{Type: graphql.NewNonNull(in)}}
	}
	edgeArgs := graphql.FieldConfigArgument{"userId": id, "authorId": id}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: t.user,
				Args: withDTO(createUserIn),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d := argDTO(p)
					u, err := svc.Users.Create(p.Context, service.CreateUserInput{Name: d.str("name"), Balance: d.float("balance")})
					if err != nil {
						return nil, classify(err)
					}
					return u, nil
				},
			},
			"changeUser": &graphql.Field{
				Type: t.user,
				Args: withIDAndDTO(changeUserIn),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d := argDTO(p)
					userID := p.Args["id"].(string)
					u, err := svc.Users.Change(p.Context, userID, service.ChangeUserInput{Name: d.optStr("name"), Balance: d.optFloat("balance")})
					if err != nil {
						return nil, classify(err)
					}
					if l := loaderOrNil(p); l != nil {
						l.UserByID.Clear(userID)
					}
					return u, nil
				},
			},
			"deleteUser": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{"id": id},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID := p.Args["id"].(string)
					if err := svc.Users.Delete(p.Context, userID); err != nil {
						return nil, classify(err)
					}
					if l := loaderOrNil(p); l != nil {
						l.ClearUser(userID)
					}
					return true, nil
				},
			},
			"createPost": &graphql.Field{
				Type: t.post,
				Args: withDTO(createPostIn),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d := argDTO(p)
					post, err := svc.Posts.Create(p.Context, service.CreatePostInput{
						Title: d.str("title"), Content: d.str("content"), AuthorID: d.str("authorId"),
					})
					if err != nil {
						return nil, classify(err)
					}
					if l := loaderOrNil(p); l != nil {
						l.PostsByAuthorID.Clear(post.AuthorID)
					}
					return post, nil
				},
			},
			"changePost": &graphql.Field{
				Type: t.post,
				Args: withIDAndDTO(changePostIn),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d := argDTO(p)
					post, err := svc.Posts.Change(p.Context, p.Args["id"].(string), service.ChangePostInput{
						Title: d.optStr("title"), Content: d.optStr("content"),
					})
					if err != nil {
						return nil, classify(err)
					}
					if l := loaderOrNil(p); l != nil {
						l.PostsByAuthorID.Clear(post.AuthorID)
					}
					return post, nil
				},
			},
			"deletePost": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{"id": id},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					post, err := svc.Posts.Delete(p.Context, p.Args["id"].(string))
					if errors.Is(err, service.ErrNotFound) {
						return false, nil
					}
					if err != nil {
						return nil, classify(err)
					}
					if l := loaderOrNil(p); l != nil {
						l.PostsByAuthorID.Clear(post.AuthorID)
					}
					return true, nil
				},
			},
			"createProfile": &graphql.Field{
				Type: t.profile,
				Args: withDTO(createProfileIn),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d := argDTO(p)
					in := service.CreateProfileInput{
						UserID:      d.str("userId"),
						IsMale:      d.boolean("isMale"),
						YearOfBirth: d.integer("yearOfBirth"),
					}
					if mt := d.memberType("memberTypeId"); mt != nil {
						in.MemberTypeID = *mt
					}
					prof, err := svc.Profiles.Create(p.Context, in)
					if err != nil {
						return nil, classify(err)
					}
					if l := loaderOrNil(p); l != nil {
						l.ProfileByUserID.Clear(prof.UserID)
					}
					return prof, nil
				},
			},
			"changeProfile": &graphql.Field{
				Type: t.profile,
				Args: withIDAndDTO(changeProfileIn),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d := argDTO(p)
					prof, err := svc.Profiles.Change(p.Context, p.Args["id"].(string), service.ChangeProfileInput{
						IsMale:       d.optBool("isMale"),
						YearOfBirth:  d.optInt("yearOfBirth"),
						MemberTypeID: d.memberType("memberTypeId"),
					})
					if err != nil {
						return nil, classify(err)
					}
					if l := loaderOrNil(p); l != nil {
						l.ProfileByUserID.Clear(prof.UserID)
					}
					return prof, nil
				},
			},
			"deleteProfile": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{"id": id},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					prof, err := svc.Profiles.Delete(p.Context, p.Args["id"].(string))
					if errors.Is(err, service.ErrNotFound) {
						return false, nil
					}
					if err != nil {
						return nil, classify(err)
					}
					if l := loaderOrNil(p); l != nil {
						l.ProfileByUserID.Clear(prof.UserID)
					}
					return true, nil
				},
			},
			"subscribeTo": &graphql.Field{
				Type: t.user,
				Args: edgeArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, authorID := p.Args["userId"].(string), p.Args["authorId"].(string)
					u, err := svc.Subscriptions.Subscribe(p.Context, userID, authorID)
					if err != nil {
						return nil, classify(err)
					}
					if l := loaderOrNil(p); l != nil {
						l.ClearSubscription(userID, authorID)
					}
					return u, nil
				},
			},
			"unsubscribeFrom": &graphql.Field{
				Type: graphql.Boolean,
				Args: edgeArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, authorID := p.Args["userId"].(string), p.Args["authorId"].(string)
					if err := svc.Subscriptions.Unsubscribe(p.Context, userID, authorID); err != nil {
						return nil, classify(err)
					}
					if l := loaderOrNil(p); l != nil {
						l.ClearSubscription(userID, authorID)
					}
					return true, nil
				},
			},
		},
	})
}
