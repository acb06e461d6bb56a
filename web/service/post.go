package service

import (
	"context"
	"time"

	"blogql/database"
	"blogql/database/model"

	"gorm.io/gorm"
)

// PostService owns all reads and writes of post rows. Every mutation runs
// in one transaction so a failed write never leaves a partial unit of work
// behind.
type PostService struct{}

func (s *PostService) GetPost(ctx context.Context, id int) (*model.Post, error) {
	db := database.GetDB().WithContext(ctx)

	post := &model.Post{}
	err := db.Model(model.Post{}).
		Where("id = ?", id).
		First(post).
		Error
	if database.IsNotFound(err) {
		return nil, ErrPostNotFound
	} else if err != nil {
		return nil, err
	}
	return post, nil
}

// GetPosts returns all post rows in ascending id order.
func (s *PostService) GetPosts(ctx context.Context) ([]model.Post, error) {
	db := database.GetDB().WithContext(ctx)

	var posts []model.Post
	err := db.Model(model.Post{}).
		Order("id asc").
		Find(&posts).
		Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostsByIds fetches one batch of posts keyed by id.
func (s *PostService) GetPostsByIds(ctx context.Context, ids []int) (map[int]model.Post, error) {
	db := database.GetDB().WithContext(ctx)

	var posts []model.Post
	err := db.Model(model.Post{}).
		Where("id IN ?", ids).
		Find(&posts).
		Error
	if err != nil {
		return nil, err
	}

	byId := make(map[int]model.Post, len(posts))
	for _, p := range posts {
		byId[p.Id] = p
	}
	return byId, nil
}

// GetPostsByUserIds fetches, in one query, the posts of every listed user,
// grouped by owner and ordered by id within each group.
func (s *PostService) GetPostsByUserIds(ctx context.Context, userIds []int) (map[int][]model.Post, error) {
	db := database.GetDB().WithContext(ctx)

	var posts []model.Post
	err := db.Model(model.Post{}).
		Where("user_id IN ?", userIds).
		Order("id asc").
		Find(&posts).
		Error
	if err != nil {
		return nil, err
	}

	byUser := make(map[int][]model.Post, len(userIds))
	for _, p := range posts {
		byUser[p.UserId] = append(byUser[p.UserId], p)
	}
	return byUser, nil
}

func (s *PostService) CountPosts(ctx context.Context) (int64, error) {
	db := database.GetDB().WithContext(ctx)

	var count int64
	err := db.Model(model.Post{}).Count(&count).Error
	return count, err
}

// AddPost creates a post owned by userId. The creation timestamp is set
// server-side in UTC. A nonexistent owner fails with ErrUserNotFound
// before anything is written.
func (s *PostService) AddPost(ctx context.Context, title string, content string, userId int) (*model.Post, error) {
	db := database.GetDB().WithContext(ctx)

	post := &model.Post{
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		UserId:    userId,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(model.User{}).Where("id = ?", userId).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUserNotFound
		}
		return tx.Create(post).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost replaces title and content of an existing post. Calling it
// twice with the same input leaves the same final state.
func (s *PostService) UpdatePost(ctx context.Context, id int, title string, content string) (*model.Post, error) {
	db := database.GetDB().WithContext(ctx)

	post := &model.Post{}
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", id).First(post).Error
		if database.IsNotFound(err) {
			return ErrPostNotFound
		} else if err != nil {
			return err
		}
		post.Title = title
		post.Content = content
		return tx.Save(post).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post; its comments go with it (cascade).
func (s *PostService) DeletePost(ctx context.Context, id int) error {
	db := database.GetDB().WithContext(ctx)

	return db.Transaction(func(tx *gorm.DB) error {
		post := &model.Post{}
		err := tx.Where("id = ?", id).First(post).Error
		if database.IsNotFound(err) {
			return ErrPostNotFound
		} else if err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}
