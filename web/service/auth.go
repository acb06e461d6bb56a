package service

import (
	"context"
	"strings"

	"blogql/database"
	"blogql/database/model"
	"blogql/logger"
	"blogql/web/session"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// AuthService bridges validated tokens to local user rows. On every
// validated token it resolves (creating if needed) the user keyed by the
// JWT subject, refreshes name/email fields from provider claims, and
// derives the request principal. Claims supplied by the client that look
// like local user ids or roles are ignored outright; the principal is
// always rebuilt from the stored row.
type AuthService struct{}

// SyncUser runs the login bridge for one validated claim set. Provider
// claims only ever overwrite stored fields when non-empty, so a provider
// that stops sending an email cannot blank out a previously-known one.
func (s *AuthService) SyncUser(ctx context.Context, claims jwt.MapClaims) (*session.Principal, error) {
	subject := claimString(claims, "sub")
	if subject == "" {
		return nil, ErrNoSubject
	}

	name := claimString(claims, "name")
	firstName := claimString(claims, "given_name")
	lastName := claimString(claims, "family_name")
	email := claimString(claims, "email")

	// Fall back to splitting the display name, matching what most
	// providers put in the composite claim.
	parts := strings.Fields(name)
	if firstName == "" && len(parts) > 0 {
		firstName = parts[0]
	}
	if lastName == "" && len(parts) > 1 {
		lastName = parts[1]
	}

	user, err := s.upsertUser(ctx, subject, name, firstName, lastName, email)
	if err != nil {
		logger.Errorf("login bridge failed for subject %s: %v", subject, err)
		return nil, err
	}

	return &session.Principal{
		UserId:  user.Id,
		Subject: subject,
		Name:    user.Name,
		Roles:   user.Roles.Names(),
	}, nil
}

func (s *AuthService) upsertUser(ctx context.Context, subject, name, firstName, lastName, email string) (*model.User, error) {
	db := database.GetDB().WithContext(ctx)

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("jwt_subject = ?", subject).
		First(user).
		Error

	if database.IsNotFound(err) {
		user = &model.User{
			JwtSubject: subject,
			Name:       name,
			FirstName:  firstName,
			LastName:   lastName,
			Email:      email,
		}
		err = db.Create(user).Error
		if err != nil && strings.Contains(err.Error(), "UNIQUE constraint") {
			// Two first logins for the same subject raced; the other
			// one won the insert, so fall through to the update path.
			return s.updateUser(ctx, subject, name, firstName, lastName, email)
		}
		if err != nil {
			return nil, err
		}
		return user, nil
	} else if err != nil {
		return nil, err
	}

	return s.applyClaims(db, user, name, firstName, lastName, email)
}

func (s *AuthService) updateUser(ctx context.Context, subject, name, firstName, lastName, email string) (*model.User, error) {
	db := database.GetDB().WithContext(ctx)

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("jwt_subject = ?", subject).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return s.applyClaims(db, user, name, firstName, lastName, email)
}

// applyClaims overwrites stored fields with non-empty incoming claims and
// persists the row only when something actually changed.
func (s *AuthService) applyClaims(db *gorm.DB, user *model.User, name, firstName, lastName, email string) (*model.User, error) {
	changed := false
	apply := func(dst *string, src string) {
		if src != "" && *dst != src {
			*dst = src
			changed = true
		}
	}
	apply(&user.Name, name)
	apply(&user.FirstName, firstName)
	apply(&user.LastName, lastName)
	apply(&user.Email, email)

	if changed {
		if err := db.Save(user).Error; err != nil {
			return nil, err
		}
	}
	return user, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	value, _ := claims[key].(string)
	return value
}
