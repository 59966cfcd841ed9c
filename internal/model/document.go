package model

// Document is the normalized view of a stored file as shown to users.
// It is rebuilt from each backend fetch and never persisted client-side.
type Document struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Size        string   `json:"size"`
	SizeBytes   int64    `json:"sizeBytes"`
	UploadDate  string   `json:"uploadDate"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Description string   `json:"description,omitempty"`
	MIMEType    string   `json:"mimeType,omitempty"`
}

// DownloadInfo points at a time-limited download location.
type DownloadInfo struct {
	URL      string `json:"url"`
	FileName string `json:"fileName,omitempty"`
}

// Comment is a single remark on a document.
type Comment struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Avatar    string `json:"avatar,omitempty"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Result reports the outcome of a mutation the backend may soft-fail.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// UploadInput carries a file to be stored by the backend.
type UploadInput struct {
	FileName    string
	Description string
	Content     []byte
}

// Document status values accepted by the list filter.
const (
	StatusUploading  = "UPLOADING"
	StatusActive     = "ACTIVE"
	StatusDeleted    = "DELETED"
	StatusProcessing = "PROCESSING"
)
