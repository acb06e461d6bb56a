package graph

import (
	"strconv"

	"blogql/database/model"
	"blogql/graph/relay"
	"blogql/web/session"

	"github.com/graphql-go/graphql"
)

var connectionArgs = graphql.FieldConfigArgument{
	"first":  &graphql.ArgumentConfig{Type: graphql.Int},
	"last":   &graphql.ArgumentConfig{Type: graphql.Int},
	"after":  &graphql.ArgumentConfig{Type: graphql.String},
	"before": &graphql.ArgumentConfig{Type: graphql.String},
}

var idArgs = graphql.FieldConfigArgument{
	"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
}

// idArg reads an ID argument. ID coercion yields strings; numeric
// literals may come through as ints.
func idArg(p graphql.ResolveParams, name string) (int, error) {
	switch v := p.Args[name].(type) {
	case int:
		return v, nil
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, NewBadRequest("invalid id: " + v)
		}
		return id, nil
	}
	return 0, NewBadRequest("missing argument: " + name)
}

func connectionArgsFrom(p graphql.ResolveParams) relay.Args {
	args := relay.Args{}
	if v, ok := p.Args["first"].(int); ok {
		args.First = &v
	}
	if v, ok := p.Args["last"].(int); ok {
		args.Last = &v
	}
	if v, ok := p.Args["after"].(string); ok {
		args.After = &v
	}
	if v, ok := p.Args["before"].(string); ok {
		args.Before = &v
	}
	return args
}

func newQueryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"user": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: idArgs,
				Resolve: withPolicy(PolicyQuery, func(p graphql.ResolveParams) (any, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					user, err := userService.GetUser(p.Context, id)
					return user, asClientError(err)
				}),
			},
			"users": &graphql.Field{
				Type: graphql.NewNonNull(userConnectionType),
				Args: connectionArgs,
				Resolve: withPolicy(PolicyQuery, func(p graphql.ResolveParams) (any, error) {
					users, err := userService.GetUsers(p.Context)
					if err != nil {
						return nil, err
					}
					conn, err := relay.Paginate(users, func(u model.User) int { return u.Id }, connectionArgsFrom(p))
					if err != nil {
						return nil, NewBadRequest(err.Error())
					}
					return conn, nil
				}),
			},
			"me": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Resolve: withPolicy(PolicyQuery, func(p graphql.ResolveParams) (any, error) {
					principal := session.FromContext(p.Context)
					user, err := userService.GetUser(p.Context, principal.UserId)
					return user, asClientError(err)
				}),
			},
			"post": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: idArgs,
				Resolve: withPolicy(PolicyQuery, func(p graphql.ResolveParams) (any, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					post, err := postService.GetPost(p.Context, id)
					return post, asClientError(err)
				}),
			},
			"posts": &graphql.Field{
				Type: graphql.NewNonNull(postConnectionType),
				Args: connectionArgs,
				Resolve: withPolicy(PolicyQuery, func(p graphql.ResolveParams) (any, error) {
					posts, err := postService.GetPosts(p.Context)
					if err != nil {
						return nil, err
					}
					conn, err := relay.Paginate(posts, func(post model.Post) int { return post.Id }, connectionArgsFrom(p))
					if err != nil {
						return nil, NewBadRequest(err.Error())
					}
					return conn, nil
				}),
			},
			"comment": &graphql.Field{
				Type: graphql.NewNonNull(commentType),
				Args: idArgs,
				Resolve: withPolicy(PolicyQuery, func(p graphql.ResolveParams) (any, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					comment, err := commentService.GetComment(p.Context, id)
					return comment, asClientError(err)
				}),
			},
		},
	})
}

// Mutations are grouped per entity under the mutation root, so the root
// fields just open the group and the policy check runs once per group.
func newMutationType() *graphql.Object {
	postMutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "PostMutation",
		Fields: graphql.Fields{
			"add": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(addPostInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					input, err := decodeInput[AddPostInput](p, "input")
					if err != nil {
						return nil, err
					}
					post, err := postService.AddPost(p.Context, input.Title, input.Content, input.UserId)
					return post, asClientError(err)
				},
			},
			"update": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updatePostInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					input, err := decodeInput[UpdatePostInput](p, "input")
					if err != nil {
						return nil, err
					}
					post, err := postService.UpdatePost(p.Context, id, input.Title, input.Content)
					return post, asClientError(err)
				},
			},
			"delete": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: idArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					if err := postService.DeletePost(p.Context, id); err != nil {
						return nil, asClientError(err)
					}
					return true, nil
				},
			},
		},
	})

	commentMutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "CommentMutation",
		Fields: graphql.Fields{
			"add": &graphql.Field{
				Type: graphql.NewNonNull(commentType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(addCommentInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					input, err := decodeInput[AddCommentInput](p, "input")
					if err != nil {
						return nil, err
					}
					comment, err := commentService.AddComment(p.Context, input.Content, input.UserId, input.PostId)
					return comment, asClientError(err)
				},
			},
			"update": &graphql.Field{
				Type: graphql.NewNonNull(commentType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateCommentInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					input, err := decodeInput[UpdateCommentInput](p, "input")
					if err != nil {
						return nil, err
					}
					comment, err := commentService.UpdateComment(p.Context, id, input.Content)
					return comment, asClientError(err)
				},
			},
			"delete": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: idArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					if err := commentService.DeleteComment(p.Context, id); err != nil {
						return nil, asClientError(err)
					}
					return true, nil
				},
			},
		},
	})

	// User deletion is administrative: it exercises the admin policy and
	// the delete-restrict on referenced users.
	userMutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "UserMutation",
		Fields: graphql.Fields{
			"delete": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: idArgs,
				Resolve: withPolicy(PolicyAdmin, func(p graphql.ResolveParams) (any, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					if err := userService.DeleteUser(p.Context, id); err != nil {
						return nil, asClientError(err)
					}
					return true, nil
				}),
			},
		},
	})

	group := func(p graphql.ResolveParams) (any, error) {
		return struct{}{}, nil
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"posts": &graphql.Field{
				Type:    graphql.NewNonNull(postMutation),
				Resolve: withPolicy(PolicyMutation, group),
			},
			"comments": &graphql.Field{
				Type:    graphql.NewNonNull(commentMutation),
				Resolve: withPolicy(PolicyMutation, group),
			},
			"users": &graphql.Field{
				Type:    graphql.NewNonNull(userMutation),
				Resolve: withPolicy(PolicyMutation, group),
			},
		},
	})
}

// NewSchema assembles the executable schema.
func NewSchema() (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    newQueryType(),
		Mutation: newMutationType(),
	})
}
