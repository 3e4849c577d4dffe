package models

import (
	"bytes"
	"encoding/json"
	"time"
)

type Post struct {
	ID          string    `bson:"_id,omitempty" json:"_id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Image       string    `bson:"image" json:"image"`
	Author      Author    `bson:"user" json:"user"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// Author is the post's user reference. The backend sends it populated on the
// feed and as a bare id string inside a user's own post list.
type Author struct {
	ID   string `bson:"_id" json:"_id"`
	Name string `bson:"username" json:"username"`
}

func (a *Author) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Author{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*a = Author{ID: id}
		return nil
	}

	var populated struct {
		ID       string `json:"_id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(data, &populated); err != nil {
		return err
	}
	*a = Author{ID: populated.ID, Name: populated.Username}
	return nil
}

// PostInput is the body of create-blog and update-blog.
type PostInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	User        string `json:"user,omitempty"`
}
