package graph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-graphql/internal/loader"
	"github.com/d60-Lab/gin-graphql/internal/model"
	"github.com/d60-Lab/gin-graphql/internal/repository"
	"github.com/d60-Lab/gin-graphql/internal/service"
	"github.com/d60-Lab/gin-graphql/internal/testutil"
)

type env struct {
	db       *gorm.DB
	repos    *repository.Repositories
	schema   graphql.Schema
	registry *loader.Registry
	queries  *testutil.QueryCounter
}

func sourcesOf(repos *repository.Repositories) loader.Sources {
	return loader.Sources{
		Users:         repos.Users,
		Profiles:      repos.Profiles,
		Posts:         repos.Posts,
		MemberTypes:   repos.MemberTypes,
		Subscriptions: repos.Subscriptions,
	}
}

func newEnv(t *testing.T, opts ...loader.Option) *env {
	t.Helper()
	db := testutil.NewDB(t)
	repos := repository.New(db)
	schema, err := NewSchema(repos, service.New(repos))
	require.NoError(t, err)
	return &env{
		db:       db,
		repos:    repos,
		schema:   schema,
		registry: loader.NewRegistry(sourcesOf(repos), opts...),
		queries:  testutil.CountQueries(t, db),
	}
}

// run 使用新的 loaders 执行查询，等同于一次 HTTP 请求
func (e *env) run(t *testing.T, query string, vars map[string]interface{}) *graphql.Result {
	t.Helper()
	ctx := loader.NewContext(context.Background(), e.registry.New())
	return e.runCtx(t, ctx, query, vars)
}

func (e *env) runCtx(t *testing.T, ctx context.Context, query string, vars map[string]interface{}) *graphql.Result {
	t.Helper()
	res, _ := Execute(ctx, e.schema, Request{Query: query, Variables: vars})
	return res
}

func requireNoErrors(t *testing.T, res *graphql.Result) {
	t.Helper()
	require.False(t, res.HasErrors(), "%v", res.Errors)
}

func field(data interface{}, path ...interface{}) interface{} {
	cur := data
	for _, p := range path {
		switch k := p.(type) {
		case string:
			cur = cur.(map[string]interface{})[k]
		case int:
			cur = cur.([]interface{})[k]
		}
	}
	return cur
}

func TestUsersPosts_OneFetchForAllAuthors(t *testing.T) {
	e := newEnv(t)
	users := testutil.SeedUsers(t, e.db, 5)
	testutil.SeedPosts(t, e.db, users[0], 2)
	testutil.SeedPosts(t, e.db, users[3], 1)
	e.queries.Reset()

	res := e.run(t, `{ users { id posts { id title } } }`, nil)
	requireNoErrors(t, res)

	// users + posts
	assert.EqualValues(t, 2, e.queries.Count())
	assert.Len(t, field(res.Data, "users", 0, "posts"), 2)
	assert.Len(t, field(res.Data, "users", 3, "posts"), 1)
	assert.Equal(t, []interface{}{}, field(res.Data, "users", 1, "posts"))
}

func TestProfilesAndMemberTypes_Batched(t *testing.T) {
	e := newEnv(t)
	users := testutil.SeedUsers(t, e.db, 5)
	testutil.SeedProfile(t, e.db, users[0], model.MemberTypeBasic)
	testutil.SeedProfile(t, e.db, users[1], model.MemberTypeBusiness)
	testutil.SeedProfile(t, e.db, users[2], model.MemberTypeBasic)
	e.queries.Reset()

	res := e.run(t, `{ users { id profile { isMale memberType { id postsLimitPerMonth } } } }`, nil)
	requireNoErrors(t, res)

	// users + profiles + member types
	assert.EqualValues(t, 3, e.queries.Count())
	assert.Equal(t, "BASIC", field(res.Data, "users", 0, "profile", "memberType", "id"))
	assert.Equal(t, 100, field(res.Data, "users", 1, "profile", "memberType", "postsLimitPerMonth"))
	assert.Nil(t, field(res.Data, "users", 4, "profile"))
}

func TestUser_ByIDAndAbsent(t *testing.T) {
	e := newEnv(t)
	users := testutil.SeedUsers(t, e.db, 2)

	res := e.run(t, `query($a: UUID!, $b: UUID!) { a: user(id: $a) { name } b: user(id: $b) { name } }`,
		map[string]interface{}{"a": users[1].ID, "b": uuid.NewString()})
	requireNoErrors(t, res)
	assert.Equal(t, "u1", field(res.Data, "a", "name"))
	assert.Nil(t, field(res.Data, "b"))

	res = e.run(t, `{ user(id: "not-a-uuid") { id } }`, nil)
	assert.True(t, res.HasErrors())
}

func TestSubscriptions_EmptyLists(t *testing.T) {
	e := newEnv(t)
	testutil.SeedUsers(t, e.db, 2)

	res := e.run(t, `{ users { userSubscribedTo { id } subscribedToUser { id } } }`, nil)
	requireNoErrors(t, res)
	assert.Equal(t, []interface{}{}, field(res.Data, "users", 0, "userSubscribedTo"))
	assert.Equal(t, []interface{}{}, field(res.Data, "users", 1, "subscribedToUser"))
}

const nestedSubscriptions = `{
  users {
    id
    userSubscribedTo { id name subscribedToUser { id } }
    subscribedToUser { id userSubscribedTo { id } }
  }
}`

func seedRing(t *testing.T, db *gorm.DB, n int) {
	users := testutil.SeedUsers(t, db, n)
	for i, u := range users {
		testutil.Subscribe(t, db, u, users[(i+1)%n])
		testutil.Subscribe(t, db, u, users[(i+2)%n])
	}
}

func TestFusion_EquivalentResults(t *testing.T) {
	fused := newEnv(t, loader.WithFusion(true))
	seedRing(t, fused.db, 6)
	plain := newEnv(t, loader.WithFusion(false))
	// 两个库使用相同的数据
	var users []model.User
	var subs []model.Subscription
	require.NoError(t, fused.db.Find(&users).Error)
	require.NoError(t, fused.db.Find(&subs).Error)
	require.NoError(t, plain.db.Create(&users).Error)
	require.NoError(t, plain.db.Create(&subs).Error)

	a := fused.run(t, nestedSubscriptions, nil)
	b := plain.run(t, nestedSubscriptions, nil)
	requireNoErrors(t, a)
	requireNoErrors(t, b)
	if diff := cmp.Diff(a.Data, b.Data); diff != "" {
		t.Fatalf("fused and plain results differ (-fused +plain):\n%s", diff)
	}
	assert.Len(t, field(a.Data, "users", 0, "userSubscribedTo"), 2)
	assert.Len(t, field(a.Data, "users", 0, "subscribedToUser"), 2)
}

func TestFusion_QueryCountIndependentOfUsers(t *testing.T) {
	counts := map[int]int64{}
	for _, n := range []int{3, 12} {
		for _, fuse := range []bool{true, false} {
			e := newEnv(t, loader.WithFusion(fuse))
			seedRing(t, e.db, n)
			e.queries.Reset()
			requireNoErrors(t, e.run(t, nestedSubscriptions, nil))
			if fuse {
				counts[n] = e.queries.Count()
			} else {
				assert.LessOrEqual(t, e.queries.Count(), int64(5), "n=%d", n)
			}
		}
	}
	assert.Equal(t, counts[3], counts[12])
}

func TestIntegrityViolation_PartialResult(t *testing.T) {
	e := newEnv(t)
	users := testutil.SeedUsers(t, e.db, 2)
	testutil.SeedProfile(t, e.db, users[0], model.MemberTypeBasic)
	bad := &model.Profile{ID: uuid.NewString(), UserID: users[1].ID, YearOfBirth: 1990, MemberTypeID: "GOLD"}
	require.NoError(t, e.db.Create(bad).Error)

	res := e.run(t, `{ users { name profile { yearOfBirth memberType { id } } } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "unknown member type id")
	assert.Equal(t, "BASIC", field(res.Data, "users", 0, "profile", "memberType", "id"))
	assert.Equal(t, "u1", field(res.Data, "users", 1, "name"))
	assert.Equal(t, 1990, field(res.Data, "users", 1, "profile", "yearOfBirth"))
	assert.Nil(t, field(res.Data, "users", 1, "profile", "memberType"))
}

type failingPosts struct{}

func (failingPosts) ListByAuthorIDs(context.Context, []string) ([]*model.Post, error) {
	return nil, errors.New("posts table unavailable")
}

func TestBatchFailure_ReportedPerField(t *testing.T) {
	e := newEnv(t)
	testutil.SeedUsers(t, e.db, 3)
	src := sourcesOf(e.repos)
	src.Posts = failingPosts{}
	e.registry = loader.NewRegistry(src)

	res := e.run(t, `{ users { name posts { id } } }`, nil)
	require.Len(t, res.Errors, 3)
	for _, fe := range res.Errors {
		assert.Contains(t, fe.Message, "posts table unavailable")
	}
	assert.Equal(t, "u2", field(res.Data, "users", 2, "name"))
	assert.Nil(t, field(res.Data, "users", 2, "posts"))
}

func TestNoLoadersInContext(t *testing.T) {
	e := newEnv(t)
	testutil.SeedUsers(t, e.db, 1)
	res, op := Execute(context.Background(), e.schema, Request{Query: `{ users { id } }`})
	assert.Equal(t, "query", op)
	require.True(t, res.HasErrors())
	assert.Contains(t, res.Errors[0].Message, errNoLoaders.Error())
}

func TestTopLevelLists(t *testing.T) {
	e := newEnv(t)
	users := testutil.SeedUsers(t, e.db, 2)
	prof := testutil.SeedProfile(t, e.db, users[0], model.MemberTypeBusiness)
	posts := testutil.SeedPosts(t, e.db, users[1], 2)

	res := e.run(t, `query($p: UUID!, $post: UUID!, $missing: UUID!) {
		memberTypes { id discount }
		memberType(id: BUSINESS) { discount }
		profiles { id userId memberTypeId }
		profile(id: $p) { id }
		posts { id authorId }
		post(id: $post) { title }
		nothing: post(id: $missing) { id }
	}`, map[string]interface{}{"p": prof.ID, "post": posts[1].ID, "missing": uuid.NewString()})
	requireNoErrors(t, res)

	assert.Len(t, field(res.Data, "memberTypes"), 2)
	assert.Equal(t, 7.7, field(res.Data, "memberType", "discount"))
	assert.Equal(t, "BUSINESS", field(res.Data, "profiles", 0, "memberTypeId"))
	assert.Equal(t, users[0].ID, field(res.Data, "profiles", 0, "userId"))
	assert.Equal(t, prof.ID, field(res.Data, "profile", "id"))
	assert.Len(t, field(res.Data, "posts"), 2)
	assert.Equal(t, posts[1].Title, field(res.Data, "post", "title"))
	assert.Nil(t, field(res.Data, "nothing"))
}

func TestOperationType(t *testing.T) {
	e := newEnv(t)
	ctx := loader.NewContext(context.Background(), e.registry.New())

	_, op := Execute(ctx, e.schema, Request{Query: `mutation { deletePost(id: "` + uuid.NewString() + `") }`})
	assert.Equal(t, "mutation", op)
	_, op = Execute(ctx, e.schema, Request{Query: `{ users {`})
	assert.Equal(t, "unknown", op)
	_, op = Execute(ctx, e.schema, Request{
		Query:         `query A { users { id } } mutation B { deletePost(id: "` + uuid.NewString() + `") }`,
		OperationName: "B",
	})
	assert.Equal(t, "mutation", op)
}

func TestSelectedFields_FollowsFragments(t *testing.T) {
	e := newEnv(t)
	testutil.SeedUsers(t, e.db, 1)
	var got loader.Include
	src := sourcesOf(e.repos)
	src.Users = includeSpy{UserSource: e.repos.Users, got: &got}
	e.registry = loader.NewRegistry(src)

	res := e.run(t, `
		fragment F on User { subscribedToUser { id } }
		{ users { id ...F ... on User { name } } }`, nil)
	requireNoErrors(t, res)
	assert.Equal(t, loader.IncludeSubscribers, got)

	res = e.run(t, `{ users { ... on User { userSubscribedTo { id } } } }`, nil)
	requireNoErrors(t, res)
	assert.Equal(t, loader.IncludeSubscriptions, got)
}

type includeSpy struct {
	loader.UserSource
	got *loader.Include
}

func (s includeSpy) List(ctx context.Context, preload repository.UserPreload) ([]*model.User, error) {
	*s.got = 0
	if preload.Subscriptions {
		*s.got |= loader.IncludeSubscriptions
	}
	if preload.Subscribers {
		*s.got |= loader.IncludeSubscribers
	}
	return s.UserSource.List(ctx, preload)
}

func TestClassify(t *testing.T) {
	cases := map[error]string{
		service.ErrNotFound:          "NOT_FOUND",
		service.ErrSubscribeSelf:     "BAD_USER_INPUT",
		service.ErrUnknownMemberType: "BAD_USER_INPUT",
		service.ErrProfileExists:     "CONFLICT",
	}
	for err, code := range cases {
		var ce *codedError
		require.ErrorAs(t, classify(err), &ce)
		assert.Equal(t, code, ce.Extensions()["code"])
		assert.ErrorIs(t, classify(err), err)
	}
	plain := errors.New("x")
	assert.Same(t, plain, classify(plain))
	assert.Nil(t, classify(nil))
}

func TestScalars(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id.String(), UUID.ParseValue(strings.ToUpper(id.String())))
	assert.Nil(t, UUID.ParseValue("nope"))
	assert.Nil(t, UUID.ParseValue(42))
	assert.Equal(t, id.String(), UUID.Serialize(id))
}

func TestReadOnlyRejectsMutation(t *testing.T) {
	e := newEnv(t)
	ctx := loader.NewContext(context.Background(), e.registry.New())
	res, op := Execute(ctx, e.schema, Request{
		Query:    `mutation { createUser(dto: { name: "x", balance: 1 }) { id } }`,
		ReadOnly: true,
	})
	assert.Equal(t, "mutation", op)
	require.True(t, res.HasErrors())
	assert.Contains(t, res.Errors[0].Message, "POST")

	var n int64
	require.NoError(t, e.db.Model(&model.User{}).Count(&n).Error)
	assert.Zero(t, n)
}
