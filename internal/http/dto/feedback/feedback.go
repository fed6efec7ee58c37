// Package feedback contiene los DTOs de feedback de usuarios.
package feedback

import "time"

type CreateRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Rating  int    `json:"rating"`
}

type Response struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListResponse struct {
	Feedback []Response `json:"feedback"`
}
