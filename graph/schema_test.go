package graph

import (
	"context"
	"os"
	"strconv"
	"testing"

	"blogql/database"
	"blogql/database/model"
	"blogql/web/session"

	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	t.Helper()
	dbPath := "test.db"
	os.Remove(dbPath)
	if err := database.InitDB(dbPath); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db, _ := database.GetDB().DB()
		db.Close()
		os.Remove(dbPath)
	})
}

func seedUser(t *testing.T, subject, name string, roles model.Role) *model.User {
	t.Helper()
	user := &model.User{JwtSubject: subject, Name: name, Roles: roles}
	require.NoError(t, database.GetDB().Create(user).Error)
	return user
}

func seedPost(t *testing.T, title string, userId int) *model.Post {
	t.Helper()
	post := &model.Post{Title: title, Content: "body of " + title, UserId: userId}
	require.NoError(t, database.GetDB().Create(post).Error)
	return post
}

func itoa(id int) string {
	return strconv.Itoa(id)
}

func principalFor(user *model.User) *session.Principal {
	return &session.Principal{
		UserId:  user.Id,
		Subject: user.JwtSubject,
		Name:    user.Name,
		Roles:   user.Roles.Names(),
	}
}

func execQL(t *testing.T, principal *session.Principal, query string) *gql.Result {
	t.Helper()
	schema, err := NewSchema()
	require.NoError(t, err)

	ctx := context.Background()
	if principal != nil {
		ctx = session.WithPrincipal(ctx, principal)
	}
	return Execute(ctx, schema, query, "", nil)
}

func errCode(t *testing.T, result *gql.Result) string {
	t.Helper()
	require.NotEmpty(t, result.Errors)
	code, _ := result.Errors[0].Extensions["code"].(string)
	return code
}

func dig(t *testing.T, v any, path ...string) any {
	t.Helper()
	for _, key := range path {
		m, ok := v.(map[string]any)
		require.True(t, ok, "expected object at %q", key)
		v = m[key]
	}
	return v
}

func TestQueryRequiresAuthentication(t *testing.T) {
	setup(t)

	result := execQL(t, nil, `{ posts { totalCount } }`)
	assert.Equal(t, CodeUnauthenticated, errCode(t, result))
	assert.Equal(t, "authentication required", result.Errors[0].Message)
}

func TestAddPostReturnsNestedOwner(t *testing.T) {
	setup(t)
	alice := seedUser(t, "auth0|alice", "Alice", 0)

	result := execQL(t, principalFor(alice), `
		mutation {
			posts {
				add(input: {title: "Hello", content: "World", userId: "1"}) {
					id
					title
					user { name }
				}
			}
		}`)
	require.Empty(t, result.Errors)
	assert.Equal(t, "Hello", dig(t, result.Data, "posts", "add", "title"))
	assert.Equal(t, "Alice", dig(t, result.Data, "posts", "add", "user", "name"))
}

func TestAddPostForUnknownUserFails(t *testing.T) {
	setup(t)
	alice := seedUser(t, "auth0|alice", "Alice", 0)

	result := execQL(t, principalFor(alice), `
		mutation {
			posts {
				add(input: {title: "Hello", content: "World", userId: "999"}) { id }
			}
		}`)
	assert.Equal(t, CodeNotFound, errCode(t, result))
	assert.Equal(t, "User not found", result.Errors[0].Message)
}

func TestAddPostValidation(t *testing.T) {
	setup(t)
	alice := seedUser(t, "auth0|alice", "Alice", 0)

	result := execQL(t, principalFor(alice), `
		mutation {
			posts {
				add(input: {title: "", content: "World", userId: "1"}) { id }
			}
		}`)
	assert.Equal(t, CodeBadRequest, errCode(t, result))
}

func TestPostsPagination(t *testing.T) {
	setup(t)
	alice := seedUser(t, "auth0|alice", "Alice", 0)
	seedPost(t, "one", alice.Id)
	seedPost(t, "two", alice.Id)
	seedPost(t, "three", alice.Id)

	result := execQL(t, principalFor(alice), `{
		posts(first: 1) {
			totalCount
			pageInfo { hasNextPage hasPreviousPage endCursor }
			edges { node { title } cursor }
		}
	}`)
	require.Empty(t, result.Errors)
	assert.Equal(t, 3, dig(t, result.Data, "posts", "totalCount"))
	assert.Equal(t, true, dig(t, result.Data, "posts", "pageInfo", "hasNextPage"))
	assert.Equal(t, false, dig(t, result.Data, "posts", "pageInfo", "hasPreviousPage"))

	edges := dig(t, result.Data, "posts", "edges").([]any)
	require.Len(t, edges, 1)
	assert.Equal(t, "one", dig(t, edges[0], "node", "title"))

	cursor := dig(t, result.Data, "posts", "pageInfo", "endCursor").(string)
	result = execQL(t, principalFor(alice), `{
		posts(first: 1, after: "`+cursor+`") {
			edges { node { title } }
			pageInfo { hasNextPage }
		}
	}`)
	require.Empty(t, result.Errors)
	edges = dig(t, result.Data, "posts", "edges").([]any)
	require.Len(t, edges, 1)
	assert.Equal(t, "two", dig(t, edges[0], "node", "title"))
	assert.Equal(t, true, dig(t, result.Data, "posts", "pageInfo", "hasNextPage"))

	result = execQL(t, principalFor(alice), `{
		posts(last: 1) {
			edges { node { title } }
			pageInfo { hasNextPage hasPreviousPage }
		}
	}`)
	require.Empty(t, result.Errors)
	edges = dig(t, result.Data, "posts", "edges").([]any)
	require.Len(t, edges, 1)
	assert.Equal(t, "three", dig(t, edges[0], "node", "title"))
	assert.Equal(t, false, dig(t, result.Data, "posts", "pageInfo", "hasNextPage"))
	assert.Equal(t, true, dig(t, result.Data, "posts", "pageInfo", "hasPreviousPage"))
}

func TestPostsPaginationRejectsBadArgs(t *testing.T) {
	setup(t)
	alice := seedUser(t, "auth0|alice", "Alice", 0)
	seedPost(t, "one", alice.Id)

	result := execQL(t, principalFor(alice), `{ posts(first: 0) { totalCount } }`)
	assert.Equal(t, CodeBadRequest, errCode(t, result))

	result = execQL(t, principalFor(alice), `{ posts(after: "garbage") { totalCount } }`)
	assert.Equal(t, CodeBadRequest, errCode(t, result))
}

func TestDeleteMissingPostLeavesOthersQueryable(t *testing.T) {
	setup(t)
	alice := seedUser(t, "auth0|alice", "Alice", 0)
	seedPost(t, "keeper", alice.Id)

	result := execQL(t, principalFor(alice), `
		mutation { posts { delete(id: "999") } }`)
	assert.Equal(t, CodeNotFound, errCode(t, result))
	assert.Equal(t, "Post not found", result.Errors[0].Message)

	result = execQL(t, principalFor(alice), `{ post(id: "1") { title } }`)
	require.Empty(t, result.Errors)
	assert.Equal(t, "keeper", dig(t, result.Data, "post", "title"))
}

func TestNestedRelationsResolve(t *testing.T) {
	setup(t)
	alice := seedUser(t, "auth0|alice", "Alice", 0)
	bob := seedUser(t, "auth0|bob", "Bob", 0)
	p1 := seedPost(t, "one", alice.Id)
	seedPost(t, "two", bob.Id)
	require.NoError(t, database.GetDB().Create(&model.Comment{
		Content: "hi", PostId: p1.Id, UserId: bob.Id,
	}).Error)

	result := execQL(t, principalFor(alice), `{
		posts {
			items {
				title
				user { name }
				comments { content user { name } }
			}
		}
	}`)
	require.Empty(t, result.Errors)

	items := dig(t, result.Data, "posts", "items").([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "Alice", dig(t, items[0], "user", "name"))
	assert.Equal(t, "Bob", dig(t, items[1], "user", "name"))

	comments := dig(t, items[0], "comments").([]any)
	require.Len(t, comments, 1)
	assert.Equal(t, "Bob", dig(t, comments[0], "user", "name"))
	assert.Empty(t, dig(t, items[1], "comments"))
}

func TestMeReflectsPrincipal(t *testing.T) {
	setup(t)
	alice := seedUser(t, "auth0|alice", "Alice", model.RoleAdmin)

	result := execQL(t, principalFor(alice), `{ me { name roles } }`)
	require.Empty(t, result.Errors)
	assert.Equal(t, "Alice", dig(t, result.Data, "me", "name"))
	assert.Equal(t, []any{"ADMIN"}, dig(t, result.Data, "me", "roles"))
}

func TestUserDeleteNeedsAdminRole(t *testing.T) {
	setup(t)
	alice := seedUser(t, "auth0|alice", "Alice", 0)
	admin := seedUser(t, "auth0|root", "Root", model.RoleAdmin)
	post := seedPost(t, "owned", alice.Id)

	result := execQL(t, principalFor(alice), `
		mutation { users { delete(id: "1") } }`)
	assert.Equal(t, CodeForbidden, errCode(t, result))

	// referenced users cannot be deleted even by admins
	result = execQL(t, principalFor(admin), `
		mutation { users { delete(id: "1") } }`)
	assert.Equal(t, CodeBadRequest, errCode(t, result))

	result = execQL(t, principalFor(admin), `
		mutation { posts { delete(id: "`+itoa(post.Id)+`") } }`)
	require.Empty(t, result.Errors)

	result = execQL(t, principalFor(admin), `
		mutation { users { delete(id: "1") } }`)
	require.Empty(t, result.Errors)
	assert.Equal(t, true, dig(t, result.Data, "users", "delete"))
}

func TestUserDeleteRestrictedByComment(t *testing.T) {
	setup(t)
	alice := seedUser(t, "auth0|alice", "Alice", 0)
	bob := seedUser(t, "auth0|bob", "Bob", 0)
	admin := seedUser(t, "auth0|root", "Root", model.RoleAdmin)
	post := seedPost(t, "owned", alice.Id)
	require.NoError(t, database.GetDB().Create(&model.Comment{
		Content: "hi", PostId: post.Id, UserId: bob.Id,
	}).Error)

	// bob's only reference is the comment; it still blocks the delete
	result := execQL(t, principalFor(admin), `
		mutation { users { delete(id: "`+itoa(bob.Id)+`") } }`)
	assert.Equal(t, CodeBadRequest, errCode(t, result))
	assert.Equal(t, "User still has posts or comments", result.Errors[0].Message)

	result = execQL(t, principalFor(admin), `
		mutation { comments { delete(id: "1") } }`)
	require.Empty(t, result.Errors)

	result = execQL(t, principalFor(admin), `
		mutation { users { delete(id: "`+itoa(bob.Id)+`") } }`)
	require.Empty(t, result.Errors)
	assert.Equal(t, true, dig(t, result.Data, "users", "delete"))
}

func TestCommentMutations(t *testing.T) {
	setup(t)
	alice := seedUser(t, "auth0|alice", "Alice", 0)
	post := seedPost(t, "one", alice.Id)

	result := execQL(t, principalFor(alice), `
		mutation {
			comments {
				add(input: {content: "First!", userId: "1", postId: "`+itoa(post.Id)+`"}) {
					id
					content
					post { title }
				}
			}
		}`)
	require.Empty(t, result.Errors)
	assert.Equal(t, "First!", dig(t, result.Data, "comments", "add", "content"))
	assert.Equal(t, "one", dig(t, result.Data, "comments", "add", "post", "title"))

	result = execQL(t, principalFor(alice), `
		mutation {
			comments {
				update(id: "1", input: {content: "Edited"}) { content }
			}
		}`)
	require.Empty(t, result.Errors)
	assert.Equal(t, "Edited", dig(t, result.Data, "comments", "update", "content"))

	result = execQL(t, principalFor(alice), `
		mutation { comments { delete(id: "1") } }`)
	require.Empty(t, result.Errors)

	result = execQL(t, principalFor(alice), `{ comment(id: "1") { content } }`)
	assert.Equal(t, CodeNotFound, errCode(t, result))
	assert.Equal(t, "Comment not found", result.Errors[0].Message)
}
