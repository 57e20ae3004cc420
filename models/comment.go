package models

import "time"

// MaxCommentLength bounds comment text length in runes.
const MaxCommentLength = 500

// Comment is a single entry of a post's comment sequence.
// Stored under posts.comments, append order preserved.
//
// The id is generated client-side for optimistic display; the persisted
// record is authoritative once the append is confirmed.
type Comment struct {
	ID        string    `bson:"id" json:"id"`
	Text      string    `bson:"text" json:"text"`
	UserID    string    `bson:"user_id" json:"userId"`
	UserName  string    `bson:"user_name,omitempty" json:"userName,omitempty"`
	UserPhoto string    `bson:"user_photo,omitempty" json:"userPhoto,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
