package domain

// UploadInput carries one uploaded file through the ingestion pipeline.
// It only lives for the duration of a single request.
type UploadInput struct {
	Data        []byte
	Filename    string
	ContentType string
	Size        int64
}

// UploadResult is returned to the uploader on success.
type UploadResult struct {
	URL           string `json:"url"`
	ID            string `json:"id"`
	Key           string `json:"key"`
	OriginalSize  int64  `json:"originalSize"`
	ProcessedSize int64  `json:"processedSize"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
}
