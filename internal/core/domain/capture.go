package domain

import "time"

type CaptureStatus string

const (
	CaptureUploaded   CaptureStatus = "uploaded"
	CaptureProcessing CaptureStatus = "processing"
	CaptureSaved      CaptureStatus = "saved"
	CaptureFailed     CaptureStatus = "failed"
)

// Capture tracks one raw document dropped into the asynchronous pipeline:
// stored verbatim, analyzed by the worker, and appended to the daily table.
type Capture struct {
	ID          string        `json:"id"`
	Filename    string        `json:"filename"`
	MimeType    string        `json:"mime_type"`
	StoragePath string        `json:"storage_path"`
	Location    string        `json:"location,omitempty"`
	Status      CaptureStatus `json:"status"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
