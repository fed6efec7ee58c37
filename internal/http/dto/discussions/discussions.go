// Package discussions contiene los DTOs de discusiones.
package discussions

import "time"

type CreateRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	CourseID string `json:"courseId"`
}

type ReplyRequest struct {
	Body string `json:"body"`
}

type Response struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	AuthorID  string    `json:"authorId"`
	CourseID  string    `json:"courseId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReplyResponse struct {
	ID           string    `json:"id"`
	DiscussionID string    `json:"discussionId"`
	AuthorID     string    `json:"authorId"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ListResponse struct {
	Discussions []Response `json:"discussions"`
}

type RepliesResponse struct {
	Replies []ReplyResponse `json:"replies"`
}
