package models

import "time"

// ContentTypes lists the accepted kinds of stored content.
var ContentTypes = []string{"image", "video", "article", "audio"}

type User struct {
	UserID    string    `json:"userid" bson:"userid"`
	Username  string    `json:"username" bson:"username"`
	Password  string    `json:"-" bson:"password"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	LastLogin time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
}

type Tag struct {
	TagID string `json:"tagid" bson:"tagid"`
	Title string `json:"title" bson:"title"`
}

type Content struct {
	ContentID string    `json:"contentid" bson:"contentid"`
	Type      string    `json:"type" bson:"type"`
	Link      string    `json:"link" bson:"link"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	TagIDs    []string  `json:"-" bson:"tagids"`
	UserID    string    `json:"userid" bson:"userid"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// Tags carries expanded tag titles on read paths; never persisted.
	Tags []string `json:"tags" bson:"-"`
}

type ShareLink struct {
	LinkID    string    `json:"linkid" bson:"linkid"`
	UserID    string    `json:"userid" bson:"userid"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
