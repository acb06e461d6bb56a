// Package graph builds the GraphQL schema: explicit type registration,
// field-level authorization, per-request batched relation loading, and
// cursor-paginated connections.
package graph

import (
	"blogql/database/model"
	"blogql/graph/relay"
	"blogql/web/service"

	"github.com/graphql-go/graphql"
)

var (
	userService    service.UserService
	postService    service.PostService
	commentService service.CommentService
)

var (
	roleEnum     *graphql.Enum
	pageInfoType *graphql.Object

	userType    *graphql.Object
	postType    *graphql.Object
	commentType *graphql.Object

	userConnectionType *graphql.Object
	postConnectionType *graphql.Object

	addPostInputType       *graphql.InputObject
	updatePostInputType    *graphql.InputObject
	addCommentInputType    *graphql.InputObject
	updateCommentInputType *graphql.InputObject
)

func init() {
	buildTypes()
}

// Source normalizers: single-entity resolvers hand pointers down, list
// and loader values arrive by value.
func userSource(p graphql.ResolveParams) *model.User {
	switch u := p.Source.(type) {
	case *model.User:
		return u
	case model.User:
		return &u
	}
	return nil
}

func postSource(p graphql.ResolveParams) *model.Post {
	switch v := p.Source.(type) {
	case *model.Post:
		return v
	case model.Post:
		return &v
	}
	return nil
}

func commentSource(p graphql.ResolveParams) *model.Comment {
	switch v := p.Source.(type) {
	case *model.Comment:
		return v
	case model.Comment:
		return &v
	}
	return nil
}

func buildTypes() {
	roleEnum = graphql.NewEnum(graphql.EnumConfig{
		Name: "Role",
		Values: graphql.EnumValueConfigMap{
			"OPERATOR": &graphql.EnumValueConfig{Value: model.RoleOperator},
			"ADMIN":    &graphql.EnumValueConfig{Value: model.RoleAdmin},
			"SYSADMIN": &graphql.EnumValueConfig{Value: model.RoleSysAdmin},
		},
	})

	pageInfoType = graphql.NewObject(graphql.ObjectConfig{
		Name: "PageInfo",
		Fields: graphql.Fields{
			"hasNextPage": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(relay.PageInfo).HasNextPage, nil
				},
			},
			"hasPreviousPage": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(relay.PageInfo).HasPreviousPage, nil
				},
			},
			"startCursor": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(relay.PageInfo).StartCursor, nil
				},
			},
			"endCursor": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(relay.PageInfo).EndCursor, nil
				},
			},
		},
	})

	userType = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return userSource(p).Id, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return userSource(p).Name, nil
				},
			},
			"firstName": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return userSource(p).FirstName, nil
				},
			},
			"lastName": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return userSource(p).LastName, nil
				},
			},
			"email": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return userSource(p).Email, nil
				},
			},
			"roles": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(roleEnum))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return userSource(p).Roles.Flags(), nil
				},
			},
		},
	})

	postType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return postSource(p).Id, nil
				},
			},
			"title": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return postSource(p).Title, nil
				},
			},
			"content": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return postSource(p).Content, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return postSource(p).CreatedAt, nil
				},
			},
			"userId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return postSource(p).UserId, nil
				},
			},
		},
	})

	commentType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Comment",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return commentSource(p).Id, nil
				},
			},
			"content": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return commentSource(p).Content, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return commentSource(p).CreatedAt, nil
				},
			},
			"postId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return commentSource(p).PostId, nil
				},
			},
			"userId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return commentSource(p).UserId, nil
				},
			},
		},
	})

	// Deferred relation fields are registered after all node types exist
	// because the relations are cyclic. Every one of them resolves
	// through the request's loader bundle and returns a thunk, so
	// sibling lookups of the same relation coalesce into one query.
	userType.AddFieldConfig("posts", &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType))),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			thunk := loadersFrom(p.Context).PostsByUser.Load(p.Context, userSource(p).Id)
			return func() (any, error) {
				posts, _, err := thunk()
				if err != nil {
					return nil, err
				}
				if posts == nil {
					posts = []model.Post{}
				}
				return posts, nil
			}, nil
		},
	})

	postType.AddFieldConfig("user", &graphql.Field{
		Type: graphql.NewNonNull(userType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			thunk := loadersFrom(p.Context).Users.Load(p.Context, postSource(p).UserId)
			return func() (any, error) {
				user, ok, err := thunk()
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, NewNotFound("User not found")
				}
				return user, nil
			}, nil
		},
	})

	postType.AddFieldConfig("comments", &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(commentType))),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			thunk := loadersFrom(p.Context).CommentsByPost.Load(p.Context, postSource(p).Id)
			return func() (any, error) {
				comments, _, err := thunk()
				if err != nil {
					return nil, err
				}
				if comments == nil {
					comments = []model.Comment{}
				}
				return comments, nil
			}, nil
		},
	})

	commentType.AddFieldConfig("post", &graphql.Field{
		Type: graphql.NewNonNull(postType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			thunk := loadersFrom(p.Context).Posts.Load(p.Context, commentSource(p).PostId)
			return func() (any, error) {
				post, ok, err := thunk()
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, NewNotFound("Post not found")
				}
				return post, nil
			}, nil
		},
	})

	commentType.AddFieldConfig("user", &graphql.Field{
		Type: graphql.NewNonNull(userType),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			thunk := loadersFrom(p.Context).Users.Load(p.Context, commentSource(p).UserId)
			return func() (any, error) {
				user, ok, err := thunk()
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, NewNotFound("User not found")
				}
				return user, nil
			}, nil
		},
	})

	userConnectionType = newConnectionType[model.User]("User", userType)
	postConnectionType = newConnectionType[model.Post]("Post", postType)

	addPostInputType = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AddPostInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"content": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"userId":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
	})

	updatePostInputType = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdatePostInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"content": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	addCommentInputType = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AddCommentInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"content": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"userId":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"postId":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
	})

	updateCommentInputType = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateCommentInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"content": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
}

// newConnectionType builds the Edge and Connection object types for one
// node type, resolving from *relay.Connection[T].
func newConnectionType[T any](name string, nodeType *graphql.Object) *graphql.Object {
	edgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: name + "Edge",
		Fields: graphql.Fields{
			"node": &graphql.Field{
				Type: graphql.NewNonNull(nodeType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(relay.Edge[T]).Node, nil
				},
			},
			"cursor": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(relay.Edge[T]).Cursor, nil
				},
			},
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name: name + "Connection",
		Fields: graphql.Fields{
			"items": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(nodeType))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*relay.Connection[T]).Items, nil
				},
			},
			"edges": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(edgeType))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*relay.Connection[T]).Edges, nil
				},
			},
			"pageInfo": &graphql.Field{
				Type: graphql.NewNonNull(pageInfoType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*relay.Connection[T]).PageInfo, nil
				},
			},
			"totalCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*relay.Connection[T]).TotalCount, nil
				},
			},
		},
	})
}
