package graph

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-graphql/internal/loader"
	"github.com/d60-Lab/gin-graphql/internal/model"
	"github.com/d60-Lab/gin-graphql/internal/testutil"
)

func TestMutations_UserLifecycle(t *testing.T) {
	e := newEnv(t)

	res := e.run(t, `mutation($dto: CreateUserInput!) { createUser(dto: $dto) { id name balance } }`,
		map[string]interface{}{"dto": map[string]interface{}{"name": "alice", "balance": 10.5}})
	requireNoErrors(t, res)
	id := field(res.Data, "createUser", "id").(string)
	assert.Equal(t, 10.5, field(res.Data, "createUser", "balance"))

	res = e.run(t, `mutation($id: UUID!) { changeUser(id: $id, dto: { name: "alice2" }) { name balance } }`,
		map[string]interface{}{"id": id})
	requireNoErrors(t, res)
	assert.Equal(t, "alice2", field(res.Data, "changeUser", "name"))
	assert.Equal(t, 10.5, field(res.Data, "changeUser", "balance"))

	res = e.run(t, `mutation($dto: CreateProfileInput!) { createProfile(dto: $dto) { id memberType { id } } }`,
		map[string]interface{}{"dto": map[string]interface{}{
			"userId": id, "isMale": false, "yearOfBirth": 1995, "memberTypeId": "BUSINESS",
		}})
	requireNoErrors(t, res)
	profileID := field(res.Data, "createProfile", "id").(string)
	assert.Equal(t, "BUSINESS", field(res.Data, "createProfile", "memberType", "id"))

	res = e.run(t, `mutation($id: UUID!) { changeProfile(id: $id, dto: { memberTypeId: BASIC, yearOfBirth: 1996 }) { yearOfBirth memberTypeId } }`,
		map[string]interface{}{"id": profileID})
	requireNoErrors(t, res)
	assert.Equal(t, 1996, field(res.Data, "changeProfile", "yearOfBirth"))
	assert.Equal(t, "BASIC", field(res.Data, "changeProfile", "memberTypeId"))

	res = e.run(t, `mutation($dto: CreatePostInput!) { createPost(dto: $dto) { id authorId } }`,
		map[string]interface{}{"dto": map[string]interface{}{"title": "t", "content": "c", "authorId": id}})
	requireNoErrors(t, res)
	postID := field(res.Data, "createPost", "id").(string)
	assert.Equal(t, id, field(res.Data, "createPost", "authorId"))

	res = e.run(t, `mutation($id: UUID!) { changePost(id: $id, dto: { content: "c2" }) { title content } }`,
		map[string]interface{}{"id": postID})
	requireNoErrors(t, res)
	assert.Equal(t, "c2", field(res.Data, "changePost", "content"))

	res = e.run(t, `mutation($id: UUID!) { deleteUser(id: $id) }`, map[string]interface{}{"id": id})
	requireNoErrors(t, res)
	assert.Equal(t, true, field(res.Data, "deleteUser"))

	res = e.run(t, `mutation($p: UUID!, $post: UUID!) { deleteProfile(id: $p) deletePost(id: $post) }`,
		map[string]interface{}{"p": profileID, "post": postID})
	requireNoErrors(t, res)
	assert.Equal(t, false, field(res.Data, "deleteProfile"))
	assert.Equal(t, false, field(res.Data, "deletePost"))

	res = e.run(t, `mutation($id: UUID!) { deleteUser(id: $id) }`, map[string]interface{}{"id": id})
	require.True(t, res.HasErrors())
	assert.Contains(t, res.Errors[0].Message, "not found")
}

func TestMutations_InvalidInput(t *testing.T) {
	e := newEnv(t)
	users := testutil.SeedUsers(t, e.db, 1)

	res := e.run(t, `mutation { createUser(dto: { name: "", balance: 1 }) { id } }`, nil)
	require.True(t, res.HasErrors())
	assert.Contains(t, res.Errors[0].Message, "invalid input")

	res = e.run(t, `mutation($id: UUID!) { subscribeTo(userId: $id, authorId: $id) { id } }`,
		map[string]interface{}{"id": users[0].ID})
	require.True(t, res.HasErrors())
	assert.Contains(t, res.Errors[0].Message, "cannot subscribe to self")

	res = e.run(t, `mutation($id: UUID!) { createProfile(dto: { userId: $id, isMale: true, yearOfBirth: 1990, memberTypeId: GOLD }) { id } }`,
		map[string]interface{}{"id": users[0].ID})
	require.True(t, res.HasErrors(), "unknown enum value is rejected by validation")
}

func TestSubscribe_ClearsLoadersWithinRequest(t *testing.T) {
	e := newEnv(t)
	users := testutil.SeedUsers(t, e.db, 2)
	ctx := loader.NewContext(context.Background(), e.registry.New())
	vars := map[string]interface{}{"u": users[0].ID, "a": users[1].ID}

	res := e.runCtx(t, ctx, `query($u: UUID!) { user(id: $u) { userSubscribedTo { id } } }`, vars)
	requireNoErrors(t, res)
	assert.Equal(t, []interface{}{}, field(res.Data, "user", "userSubscribedTo"))

	res = e.runCtx(t, ctx, `mutation($u: UUID!, $a: UUID!) {
		subscribeTo(userId: $u, authorId: $a) { id userSubscribedTo { id } }
	}`, vars)
	requireNoErrors(t, res)
	assert.Equal(t, users[1].ID, field(res.Data, "subscribeTo", "userSubscribedTo", 0, "id"))

	res = e.runCtx(t, ctx, `query($a: UUID!) { user(id: $a) { subscribedToUser { name } } }`, vars)
	requireNoErrors(t, res)
	assert.Equal(t, "u0", field(res.Data, "user", "subscribedToUser", 0, "name"))

	res = e.runCtx(t, ctx, `mutation($u: UUID!, $a: UUID!) {
		unsubscribeFrom(userId: $u, authorId: $a)
	}`, vars)
	requireNoErrors(t, res)
	res = e.runCtx(t, ctx, `query($u: UUID!) { user(id: $u) { userSubscribedTo { id } } }`, vars)
	requireNoErrors(t, res)
	assert.Equal(t, []interface{}{}, field(res.Data, "user", "userSubscribedTo"))
}

func TestCreatePost_ClearsAuthorPosts(t *testing.T) {
	e := newEnv(t)
	users := testutil.SeedUsers(t, e.db, 1)
	ctx := loader.NewContext(context.Background(), e.registry.New())
	vars := map[string]interface{}{"u": users[0].ID}

	res := e.runCtx(t, ctx, `query($u: UUID!) { user(id: $u) { posts { id } profile { id } } }`, vars)
	requireNoErrors(t, res)
	assert.Empty(t, field(res.Data, "user", "posts"))
	assert.Nil(t, field(res.Data, "user", "profile"))

	res = e.runCtx(t, ctx, `mutation($u: UUID!) {
		createPost(dto: { title: "t", content: "c", authorId: $u }) { id }
		createProfile(dto: { userId: $u, isMale: true, yearOfBirth: 1990, memberTypeId: BASIC }) { id }
	}`, vars)
	requireNoErrors(t, res)

	res = e.runCtx(t, ctx, `query($u: UUID!) { user(id: $u) { posts { id } profile { memberTypeId } } }`, vars)
	requireNoErrors(t, res)
	assert.Len(t, field(res.Data, "user", "posts"), 1)
	assert.Equal(t, string(model.MemberTypeBasic), field(res.Data, "user", "profile", "memberTypeId"))
}

func TestDeletePost_Missing(t *testing.T) {
	e := newEnv(t)
	res := e.run(t, `mutation($id: UUID!) { deletePost(id: $id) }`, map[string]interface{}{"id": uuid.NewString()})
	requireNoErrors(t, res)
	assert.Equal(t, false, field(res.Data, "deletePost"))
}

func TestMutations_NestedResultsCompleteBeforeNextField(t *testing.T) {
	e := newEnv(t)
	users := testutil.SeedUsers(t, e.db, 2)
	posts := testutil.SeedPosts(t, e.db, users[0], 1)

	res := e.run(t, `mutation($b: UUID!, $c: UUID!) {
		a: subscribeTo(userId: $b, authorId: $c) { userSubscribedTo { id } }
		b: unsubscribeFrom(userId: $b, authorId: $c)
	}`, map[string]interface{}{"b": users[0].ID, "c": users[1].ID})
	requireNoErrors(t, res)
	assert.Equal(t, []interface{}{map[string]interface{}{"id": users[1].ID}}, field(res.Data, "a", "userSubscribedTo"))
	assert.Equal(t, true, field(res.Data, "b"))

	res = e.run(t, `mutation($u: UUID!, $p: UUID!) {
		a: changeUser(id: $u, dto: { name: "renamed" }) { name posts { id } }
		b: deletePost(id: $p)
	}`, map[string]interface{}{"u": users[0].ID, "p": posts[0].ID})
	requireNoErrors(t, res)
	assert.Equal(t, "renamed", field(res.Data, "a", "name"))
	assert.Equal(t, []interface{}{map[string]interface{}{"id": posts[0].ID}}, field(res.Data, "a", "posts"))
	assert.Equal(t, true, field(res.Data, "b"))

	res = e.run(t, `query($u: UUID!) { user(id: $u) { posts { id } } }`, map[string]interface{}{"u": users[0].ID})
	requireNoErrors(t, res)
	assert.Equal(t, []interface{}{}, field(res.Data, "user", "posts"))
}
