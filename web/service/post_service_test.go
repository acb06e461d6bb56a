package service

import (
	"context"
	"testing"

	"blogql/database"
	"blogql/database/model"

	"github.com/stretchr/testify/assert"
)

func seedUser(t *testing.T, subject, name string) *model.User {
	t.Helper()
	user := &model.User{JwtSubject: subject, Name: name}
	if err := database.GetDB().Create(user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

func TestPostLifecycle(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	postService := PostService{}
	alice := seedUser(t, "auth0|alice", "Alice")

	post, err := postService.AddPost(ctx, "Hello", "First post", alice.Id)
	assert.NoError(t, err)
	assert.NotZero(t, post.Id)
	assert.Equal(t, alice.Id, post.UserId)
	assert.False(t, post.CreatedAt.IsZero())

	got, err := postService.GetPost(ctx, post.Id)
	assert.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)

	updated, err := postService.UpdatePost(ctx, post.Id, "Hello again", "Edited")
	assert.NoError(t, err)
	assert.Equal(t, "Hello again", updated.Title)
	assert.Equal(t, "Edited", updated.Content)

	// update is idempotent
	again, err := postService.UpdatePost(ctx, post.Id, "Hello again", "Edited")
	assert.NoError(t, err)
	assert.Equal(t, updated.Title, again.Title)
	assert.Equal(t, updated.Content, again.Content)

	err = postService.DeletePost(ctx, post.Id)
	assert.NoError(t, err)

	_, err = postService.GetPost(ctx, post.Id)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestAddPostRequiresExistingUser(t *testing.T) {
	setup()
	defer teardown()

	postService := PostService{}
	_, err := postService.AddPost(context.Background(), "Orphan", "no owner", 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	count, _ := postService.CountPosts(context.Background())
	assert.Equal(t, int64(0), count)
}

func TestUpdateMissingPostFails(t *testing.T) {
	setup()
	defer teardown()

	postService := PostService{}
	_, err := postService.UpdatePost(context.Background(), 123, "x", "y")
	assert.ErrorIs(t, err, ErrPostNotFound)

	err = postService.DeletePost(context.Background(), 123)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePostCascadesComments(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	postService := PostService{}
	commentService := CommentService{}
	alice := seedUser(t, "auth0|alice", "Alice")

	post, err := postService.AddPost(ctx, "Hello", "body", alice.Id)
	assert.NoError(t, err)
	comment, err := commentService.AddComment(ctx, "Nice", alice.Id, post.Id)
	assert.NoError(t, err)

	err = postService.DeletePost(ctx, post.Id)
	assert.NoError(t, err)

	_, err = commentService.GetComment(ctx, comment.Id)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentLifecycle(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	postService := PostService{}
	commentService := CommentService{}
	alice := seedUser(t, "auth0|alice", "Alice")

	post, err := postService.AddPost(ctx, "Hello", "body", alice.Id)
	assert.NoError(t, err)

	_, err = commentService.AddComment(ctx, "orphan", alice.Id, 999)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = commentService.AddComment(ctx, "orphan", 999, post.Id)
	assert.ErrorIs(t, err, ErrUserNotFound)

	comment, err := commentService.AddComment(ctx, "First!", alice.Id, post.Id)
	assert.NoError(t, err)
	assert.False(t, comment.CreatedAt.IsZero())

	updated, err := commentService.UpdateComment(ctx, comment.Id, "Edited")
	assert.NoError(t, err)
	assert.Equal(t, "Edited", updated.Content)

	err = commentService.DeleteComment(ctx, comment.Id)
	assert.NoError(t, err)
	err = commentService.DeleteComment(ctx, comment.Id)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestDeleteUserRestrictedWhileReferenced(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	userService := UserService{}
	postService := PostService{}
	alice := seedUser(t, "auth0|alice", "Alice")

	post, err := postService.AddPost(ctx, "Hello", "body", alice.Id)
	assert.NoError(t, err)

	err = userService.DeleteUser(ctx, alice.Id)
	assert.ErrorIs(t, err, ErrUserReferenced)

	// the user survives the failed delete
	_, err = userService.GetUser(ctx, alice.Id)
	assert.NoError(t, err)

	err = postService.DeletePost(ctx, post.Id)
	assert.NoError(t, err)
	err = userService.DeleteUser(ctx, alice.Id)
	assert.NoError(t, err)

	_, err = userService.GetUser(ctx, alice.Id)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUserRestrictedByCommentOnly(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	userService := UserService{}
	postService := PostService{}
	commentService := CommentService{}

	alice := seedUser(t, "auth0|alice", "Alice")
	bob := seedUser(t, "auth0|bob", "Bob")

	post, err := postService.AddPost(ctx, "Hello", "body", alice.Id)
	assert.NoError(t, err)
	comment, err := commentService.AddComment(ctx, "Nice", bob.Id, post.Id)
	assert.NoError(t, err)

	// bob owns no posts; the comment alone blocks the delete
	err = userService.DeleteUser(ctx, bob.Id)
	assert.ErrorIs(t, err, ErrUserReferenced)

	err = commentService.DeleteComment(ctx, comment.Id)
	assert.NoError(t, err)
	err = userService.DeleteUser(ctx, bob.Id)
	assert.NoError(t, err)

	_, err = userService.GetUser(ctx, bob.Id)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBatchFetches(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	userService := UserService{}
	postService := PostService{}
	commentService := CommentService{}

	alice := seedUser(t, "auth0|alice", "Alice")
	bob := seedUser(t, "auth0|bob", "Bob")

	p1, _ := postService.AddPost(ctx, "a", "1", alice.Id)
	p2, _ := postService.AddPost(ctx, "b", "2", alice.Id)
	p3, _ := postService.AddPost(ctx, "c", "3", bob.Id)
	commentService.AddComment(ctx, "on p1", bob.Id, p1.Id)
	commentService.AddComment(ctx, "on p1 again", alice.Id, p1.Id)

	users, err := userService.GetUsersByIds(ctx, []int{alice.Id, bob.Id, 999})
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "Alice", users[alice.Id].Name)

	byUser, err := postService.GetPostsByUserIds(ctx, []int{alice.Id, bob.Id})
	assert.NoError(t, err)
	assert.Len(t, byUser[alice.Id], 2)
	assert.Equal(t, p1.Id, byUser[alice.Id][0].Id)
	assert.Equal(t, p2.Id, byUser[alice.Id][1].Id)
	assert.Len(t, byUser[bob.Id], 1)

	posts, err := postService.GetPostsByIds(ctx, []int{p1.Id, p3.Id})
	assert.NoError(t, err)
	assert.Len(t, posts, 2)

	comments, err := commentService.GetCommentsByPostIds(ctx, []int{p1.Id, p2.Id})
	assert.NoError(t, err)
	assert.Len(t, comments[p1.Id], 2)
	assert.Empty(t, comments[p2.Id])
}
