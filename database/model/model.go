package model

import (
	"time"
)

// User is an identity row. It is created lazily on the first validated
// token for an unseen JWT subject and is never deleted by the server
// itself (an admin may delete it once no posts or comments reference it).
type User struct {
	Id         int    `json:"id" gorm:"primaryKey;autoIncrement"`
	JwtSubject string `json:"jwtSubject" gorm:"size:255;not null;uniqueIndex"`
	Name       string `json:"name" gorm:"size:50"`
	FirstName  string `json:"firstName" gorm:"size:50"`
	LastName   string `json:"lastName" gorm:"size:50"`
	Email      string `json:"email" gorm:"size:100"`
	Roles      Role   `json:"roles"`

	Posts    []Post    `json:"-" gorm:"foreignKey:UserId;constraint:OnDelete:RESTRICT"`
	Comments []Comment `json:"-" gorm:"foreignKey:UserId;constraint:OnDelete:RESTRICT"`
}

type Post struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UserId    int       `json:"userId" gorm:"not null;index"`

	User     *User     `json:"-" gorm:"foreignKey:UserId"`
	Comments []Comment `json:"-" gorm:"foreignKey:PostId;constraint:OnDelete:CASCADE"`
}

type Comment struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	PostId    int       `json:"postId" gorm:"not null;index"`
	UserId    int       `json:"userId" gorm:"not null;index"`

	Post *Post `json:"-" gorm:"foreignKey:PostId"`
	User *User `json:"-" gorm:"foreignKey:UserId"`
}
