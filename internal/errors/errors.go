package errors

import "errors"

// Upload relay
var (
	ErrNoFileProvided      = errors.New("No file provided")
	ErrMultipleFiles       = errors.New("exactly one file is allowed")
	ErrUploadTooLarge      = errors.New("upload exceeds the configured size limit")
	ErrUploadQueueFull     = errors.New("too many concurrent uploads, try again later")
	ErrFailedToStageFile   = errors.New("failed to stage uploaded file")
	ErrFailedToUploadBlob  = errors.New("failed to upload file to blob storage")
	ErrBlobNotConfigured   = errors.New("blob storage credentials are not configured")
	ErrObjectKeyRequired   = errors.New("object key is required")
	ErrInvalidStagedFile   = errors.New("staged file is missing")
	ErrBackendNotReachable = errors.New("backend is not reachable")
)

// Client upload tokens
var (
	ErrUnknownBlobEvent            = errors.New("unknown blob upload event type")
	ErrInvalidBlobEvent            = errors.New("invalid blob upload event")
	ErrInvalidCallbackSignature    = errors.New("invalid callback signature")
	ErrBlobRejected                = errors.New("uploaded blob is outside the token scope")
	ErrPathnameRequired            = errors.New("pathname is required")
	ErrFailedToGenerateClientToken = errors.New("failed to generate client token")
	ErrUnexpectedSigningMethod     = errors.New("unexpected signing method")
	ErrFailedToParseToken          = errors.New("failed to parse token")
	ErrInvalidToken                = errors.New("invalid token")
)

// Gallery client
var (
	ErrTitleRequired    = errors.New("Please enter a video title")
	ErrFileRequired     = errors.New("Please select a video file")
	ErrVideoNotFound    = errors.New("video not found")
	ErrLoadVideosFailed = errors.New("Failed to load videos")
	ErrDeleteFailed     = errors.New("Failed to delete video")
	ErrStatusFailed     = errors.New("Failed to get processing status")
	ErrInvalidResponse  = errors.New("Invalid response format")
	ErrDeleteCancelled  = errors.New("delete cancelled")
	ErrUploadNetwork    = errors.New("Network error occurred")
	ErrInvalidPage      = errors.New("page out of range")
)
