package domain

import "time"

type Post struct {
	ID        int64
	UserID    int64
	Username  string // author, joined from users
	Content   string
	LikeCount int
	Liked     bool // whether the viewing user liked it
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID         int64
	PostID     int64
	UserID     int64
	Username   string
	ProfilePic string
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
