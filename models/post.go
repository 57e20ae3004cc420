package models

import (
	"time"
)

// AuthorRef is the embedded author object written by newer records.
// Stored under posts.author
type AuthorRef struct {
	UID         string `bson:"uid,omitempty" json:"uid,omitempty"`
	DisplayName string `bson:"display_name,omitempty" json:"displayName,omitempty"`
	PhotoURL    string `bson:"photo_url,omitempty" json:"photoURL,omitempty"`
}

// Post represents a feed post document with its engagement counters.
// Collection: posts
//
// The engagement layer only ever mutates views, likes, liked_by and
// comments; creation and deletion of posts happen elsewhere.
type Post struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Content     string    `bson:"content,omitempty" json:"content,omitempty"`
	Category    string    `bson:"category,omitempty" json:"category"`
	AuthorID    string    `bson:"author_id,omitempty" json:"authorId"`
	AuthorName  string    `bson:"author_name,omitempty" json:"authorName"`
	AuthorPhoto string    `bson:"author_photo,omitempty" json:"authorPhoto,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`

	Views        int64     `bson:"views" json:"views"`
	LastViewedBy string    `bson:"last_viewed_by,omitempty" json:"-"`
	LastViewedAt time.Time `bson:"last_viewed_at,omitempty" json:"-"`
	Likes        int64     `bson:"likes" json:"likes"`
	LikedBy      []string  `bson:"liked_by" json:"likedBy"`
	Comments     []Comment `bson:"comments" json:"comments"`

	// Legacy fields kept for records written before the author snapshot
	// was denormalized onto the post itself.
	LegacyAuthor *AuthorRef `bson:"author,omitempty" json:"-"`
	LegacyUserID string     `bson:"user_id,omitempty" json:"-"`
}

// AnonymousAuthor is the display name used when no author field survives
// the fallback chain.
const AnonymousAuthor = "Anonymous"

// Normalize resolves the author snapshot through the fallback chain
// (flat fields, then the embedded legacy author object, then Anonymous)
// and default-fills absent engagement fields so callers never see nil
// slices or negative counters.
func (p *Post) Normalize() {
	if p.AuthorName == "" && p.LegacyAuthor != nil {
		p.AuthorName = p.LegacyAuthor.DisplayName
	}
	if p.AuthorID == "" {
		if p.LegacyAuthor != nil && p.LegacyAuthor.UID != "" {
			p.AuthorID = p.LegacyAuthor.UID
		} else {
			p.AuthorID = p.LegacyUserID
		}
	}
	if p.AuthorPhoto == "" && p.LegacyAuthor != nil {
		p.AuthorPhoto = p.LegacyAuthor.PhotoURL
	}
	if p.AuthorName == "" {
		p.AuthorName = AnonymousAuthor
	}
	p.LegacyAuthor = nil
	p.LegacyUserID = ""

	if p.Views < 0 {
		p.Views = 0
	}
	if p.Likes < 0 {
		p.Likes = 0
	}
	if p.LikedBy == nil {
		p.LikedBy = []string{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// HasLiked reports whether uid is present in the liked_by set.
func (p *Post) HasLiked(uid string) bool {
	for _, id := range p.LikedBy {
		if id == uid {
			return true
		}
	}
	return false
}

// CommentByID returns the comment with the given id and its index,
// or nil and -1 when absent.
func (p *Post) CommentByID(id string) (*Comment, int) {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i], i
		}
	}
	return nil, -1
}

// Clone returns a deep copy so optimistic local patches never alias the
// slices of a published snapshot.
func (p Post) Clone() Post {
	c := p
	c.LikedBy = append([]string(nil), p.LikedBy...)
	c.Comments = append([]Comment(nil), p.Comments...)
	return c
}
