package model

// Post represents a piece of content authored by a user.
// User carries the owner loaded from the same storage session; it is nil
// only for rows scanned without a join.
type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  int64  `json:"user_id"`
	User    *User  `json:"user,omitempty"`
}
