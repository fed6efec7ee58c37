// Package notifications contiene los DTOs de notificaciones.
package notifications

import "time"

type Response struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListResponse struct {
	Notifications []Response `json:"notifications"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
