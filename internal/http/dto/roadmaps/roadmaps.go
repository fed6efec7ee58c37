// Package roadmaps contiene los DTOs de rutas de aprendizaje.
package roadmaps

import (
	"encoding/json"
	"time"
)

type CreateRequest struct {
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Steps       json.RawMessage `json:"steps"`
}

type Response struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Steps       json.RawMessage `json:"steps"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ListResponse struct {
	Roadmaps []Response `json:"roadmaps"`
}
