package service

import (
	"context"
	"strings"

	"blogql/database"
	"blogql/database/model"
)

// UserService reads and administers user rows. Users are created by the
// auth bridge only (see AuthService), never through this service.
type UserService struct{}

func (s *UserService) GetUser(ctx context.Context, id int) (*model.User, error) {
	db := database.GetDB().WithContext(ctx)

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("id = ?", id).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserBySubject(ctx context.Context, subject string) (*model.User, error) {
	db := database.GetDB().WithContext(ctx)

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("jwt_subject = ?", subject).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUsers returns all user rows in ascending id order, the ordering the
// pagination layer expects.
func (s *UserService) GetUsers(ctx context.Context) ([]model.User, error) {
	db := database.GetDB().WithContext(ctx)

	var users []model.User
	err := db.Model(model.User{}).
		Order("id asc").
		Find(&users).
		Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetUsersByIds fetches one batch of users keyed by id. Missing ids are
// simply absent from the result map.
func (s *UserService) GetUsersByIds(ctx context.Context, ids []int) (map[int]model.User, error) {
	db := database.GetDB().WithContext(ctx)

	var users []model.User
	err := db.Model(model.User{}).
		Where("id IN ?", ids).
		Find(&users).
		Error
	if err != nil {
		return nil, err
	}

	byId := make(map[int]model.User, len(users))
	for _, u := range users {
		byId[u.Id] = u
	}
	return byId, nil
}

func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	db := database.GetDB().WithContext(ctx)

	var count int64
	err := db.Model(model.User{}).Count(&count).Error
	return count, err
}

// DeleteUser removes a user row. The store restricts the delete while any
// post or comment references the user.
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	db := database.GetDB().WithContext(ctx)

	user := &model.User{}
	err := db.Where("id = ?", id).First(user).Error
	if database.IsNotFound(err) {
		return ErrUserNotFound
	} else if err != nil {
		return err
	}

	err = db.Delete(user).Error
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint") {
		return ErrUserReferenced
	}
	return err
}

// SetRole adds or removes a role flag on the user identified by subject.
// Used by the CLI; there is no mutation that grants roles.
func (s *UserService) SetRole(ctx context.Context, subject string, role model.Role, grant bool) (*model.User, error) {
	user, err := s.GetUserBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	if grant {
		user.Roles.Add(role)
	} else {
		user.Roles.Remove(role)
	}

	db := database.GetDB().WithContext(ctx)
	if err := db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
