package service

import (
	"context"
	"time"

	"blogql/database"
	"blogql/database/model"

	"gorm.io/gorm"
)

// CommentService owns all reads and writes of comment rows.
type CommentService struct{}

func (s *CommentService) GetComment(ctx context.Context, id int) (*model.Comment, error) {
	db := database.GetDB().WithContext(ctx)

	comment := &model.Comment{}
	err := db.Model(model.Comment{}).
		Where("id = ?", id).
		First(comment).
		Error
	if database.IsNotFound(err) {
		return nil, ErrCommentNotFound
	} else if err != nil {
		return nil, err
	}
	return comment, nil
}

// GetCommentsByPostIds fetches, in one query, the comments of every listed
// post, grouped by post and ordered by id within each group.
func (s *CommentService) GetCommentsByPostIds(ctx context.Context, postIds []int) (map[int][]model.Comment, error) {
	db := database.GetDB().WithContext(ctx)

	var comments []model.Comment
	err := db.Model(model.Comment{}).
		Where("post_id IN ?", postIds).
		Order("id asc").
		Find(&comments).
		Error
	if err != nil {
		return nil, err
	}

	byPost := make(map[int][]model.Comment, len(postIds))
	for _, c := range comments {
		byPost[c.PostId] = append(byPost[c.PostId], c)
	}
	return byPost, nil
}

func (s *CommentService) CountComments(ctx context.Context) (int64, error) {
	db := database.GetDB().WithContext(ctx)

	var count int64
	err := db.Model(model.Comment{}).Count(&count).Error
	return count, err
}

// AddComment creates a comment on postId owned by userId. Both references
// are checked before anything is written.
func (s *CommentService) AddComment(ctx context.Context, content string, userId int, postId int) (*model.Comment, error) {
	db := database.GetDB().WithContext(ctx)

	comment := &model.Comment{
		Content:   content,
		CreatedAt: time.Now().UTC(),
		UserId:    userId,
		PostId:    postId,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(model.User{}).Where("id = ?", userId).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUserNotFound
		}
		if err := tx.Model(model.Post{}).Where("id = ?", postId).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrPostNotFound
		}
		return tx.Create(comment).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, id int, content string) (*model.Comment, error) {
	db := database.GetDB().WithContext(ctx)

	comment := &model.Comment{}
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", id).First(comment).Error
		if database.IsNotFound(err) {
			return ErrCommentNotFound
		} else if err != nil {
			return err
		}
		comment.Content = content
		return tx.Save(comment).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, id int) error {
	db := database.GetDB().WithContext(ctx)

	return db.Transaction(func(tx *gorm.DB) error {
		comment := &model.Comment{}
		err := tx.Where("id = ?", id).First(comment).Error
		if database.IsNotFound(err) {
			return ErrCommentNotFound
		} else if err != nil {
			return err
		}
		return tx.Delete(comment).Error
	})
}
