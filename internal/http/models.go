package http

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the liveness probe body
type HealthResponse struct {
	Status              string `json:"status"`
	Message             string `json:"message"`
	FastAPIURL          string `json:"fastapi_url"`
	BlobTokenConfigured bool   `json:"blob_token_configured"`
}

// UploadResponse represents a relayed upload
type UploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Pathname string `json:"pathname"`
	Title    string `json:"title"`
	ID       string `json:"id"`
}
