package models

import (
	"time"
	"unicode/utf8"
)

const unnamedGroup = "Группа без названия"

type User struct {
	UserID       int64     `json:"userId" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// FullName falls back to the username when no name was given at signup.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}

type Group struct {
	GroupID     int64  `json:"groupId" db:"group_id"`
	Title       string `json:"title" db:"title"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`
}

func (g *Group) String() string {
	if g.Title == "" {
		return unnamedGroup
	}
	return g.Title
}

// Post carries the author and group columns joined in by the listing queries,
// so a rendered feed never needs a second lookup per row.
type Post struct {
	PostID    int64     `json:"postId" db:"post_id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Image     string    `json:"image" db:"image"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	GroupID   *int64    `json:"groupId" db:"group_id"`

	AuthorUsername string  `json:"authorUsername" db:"author_username"`
	GroupSlug      *string `json:"groupSlug" db:"group_slug"`
	GroupTitle     *string `json:"groupTitle" db:"group_title"`

	ImageURL string `json:"imageUrl" db:"-"`
}

func (p *Post) String() string {
	return preview(p.Text)
}

type Comment struct {
	CommentID int64     `json:"commentId" db:"comment_id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	PostID    int64     `json:"postId" db:"post_id"`

	AuthorUsername string `json:"authorUsername" db:"author_username"`
}

func (c *Comment) String() string {
	return preview(c.Text)
}

type Follow struct {
	FollowID  int64     `json:"followId" db:"follow_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// preview is the short form used in admin listings and logs.
func preview(text string) string {
	if utf8.RuneCountInString(text) > 15 {
		text = string([]rune(text)[:15])
	}
	return text + "... "
}
