package dto

import "github.com/inkwell/inkwell/internal/model"

// CreatePostRequest represents the request body for creating a post.
// UserID is a pointer so an absent field (a validation error) is
// distinguishable from an explicit zero (an unknown owner).
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  *int64 `json:"user_id"`
}

// PostResponse represents a post in API responses, owner embedded.
type PostResponse struct {
	ID      int64        `json:"id"`
	Title   string       `json:"title"`
	Content string       `json:"content"`
	User    UserResponse `json:"user"`
}

// ToPostResponse converts a Post model to PostResponse DTO.
// The post must carry its owner loaded from the same storage session.
func ToPostResponse(post *model.Post) *PostResponse {
	response := &PostResponse{
		ID:      post.ID,
		Title:   post.Title,
		Content: post.Content,
	}
	if post.User != nil {
		response.User = *ToUserResponse(post.User)
	}
	return response
}

// ToPostListResponse converts a slice of Post models to response DTOs.
func ToPostListResponse(posts []*model.Post) []PostResponse {
	responses := make([]PostResponse, len(posts))
	for i, post := range posts {
		responses[i] = *ToPostResponse(post)
	}
	return responses
}
