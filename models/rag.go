// models/rag.go
package models

// AskRequest is the /ask request body.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse carries the generated answer.
type AskResponse struct {
	Answer string `json:"answer"`
}

// UploadResponse reports a completed ingest run.
type UploadResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WelcomeResponse is the static root payload.
type WelcomeResponse struct {
	Message string `json:"message"`
}
