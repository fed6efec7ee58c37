// Package pdfchat contiene los DTOs del chat sobre documentos PDF.
package pdfchat

type ChatRequest struct {
	DocumentID string `json:"documentId"`
	Question   string `json:"question"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}
