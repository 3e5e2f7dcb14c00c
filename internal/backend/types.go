package backend

// VideoRecord is a video as served by the backend registry.
type VideoRecord struct {
	ID                  int64  `json:"id"`
	Title               string `json:"title"`
	ThumbnailPath       string `json:"thumbnail_path"`
	FilePath            string `json:"file_path"`
	Status              string `json:"status"`
	Duration            *int   `json:"duration,omitempty"`
	UploadCompleted     bool   `json:"upload_completed"`
	ProcessingCompleted bool   `json:"processing_completed"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}

// Video statuses.
const (
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusError      = "error"
)

// Processing job statuses.
const (
	JobCompleted = "completed"
	JobFailed    = "failed"
)

type VideoList struct {
	Videos []VideoRecord `json:"videos"`
	Total  int           `json:"total"`
}

type ListParams struct {
	Skip   int
	Limit  int
	Status string
}

type ProcessingStatus struct {
	JobStatus    string  `json:"job_status"`
	ErrorMessage *string `json:"error_message,omitempty"`
}

// RegisterRequest is sent after the bridge stored a file itself.
type RegisterRequest struct {
	BlobURL      string `json:"blobUrl"`
	BlobSize     int64  `json:"blobSize"`
	BlobPathname string `json:"blobPathname"`
	Title        string `json:"title"`
}

// UploadedNotification is sent after a direct client upload completed.
type UploadedNotification struct {
	BlobURL      string `json:"blobUrl"`
	BlobSize     int64  `json:"blobSize"`
	BlobPathname string `json:"blobPathname"`
	TokenPayload string `json:"tokenPayload,omitempty"`
}

type OutcomeStatus string

const (
	Delivered OutcomeStatus = "delivered"
	Ignored   OutcomeStatus = "ignored"
)

// Outcome of a best-effort notification. Cause is set when Status is Ignored.
type Outcome struct {
	Status     OutcomeStatus
	StatusCode int
	Cause      error
}

func (o Outcome) Delivered() bool {
	return o.Status == Delivered
}
