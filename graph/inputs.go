package graph

import (
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/graphql-go/graphql"
)

// Id-valued input fields arrive as strings after ID coercion, hence the
// ",string" tags.
type AddPostInput struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
	UserId  int    `json:"userId,string" validate:"required"`
}

type UpdatePostInput struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type AddCommentInput struct {
	Content string `json:"content" validate:"required"`
	UserId  int    `json:"userId,string" validate:"required"`
	PostId  int    `json:"postId,string" validate:"required"`
}

type UpdateCommentInput struct {
	Content string `json:"content" validate:"required"`
}

var validate = validator.New()

// decodeInput converts the coerced argument map into the typed input
// model and validates it. Validation failures surface as BAD_REQUEST
// client errors.
func decodeInput[T any](p graphql.ResolveParams, arg string) (*T, error) {
	raw, ok := p.Args[arg]
	if !ok {
		return nil, NewBadRequest("missing argument: " + arg)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, NewBadRequest("malformed argument: " + arg)
	}
	input := new(T)
	if err := json.Unmarshal(encoded, input); err != nil {
		return nil, NewBadRequest("malformed argument: " + arg)
	}

	if err := validate.Struct(input); err != nil {
		return nil, NewBadRequest("invalid input: " + err.Error())
	}
	return input, nil
}
