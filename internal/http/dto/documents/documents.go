// Package documents contiene los DTOs de documentos (pdf, ebook, imagen).
package documents

import "time"

type Response struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	FileName  string    `json:"fileName"`
	URL       string    `json:"url"`
	SizeBytes int64     `json:"sizeBytes"`
	OwnerID   string    `json:"ownerId"`
	CourseID  string    `json:"courseId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListResponse struct {
	Documents []Response `json:"documents"`
}
