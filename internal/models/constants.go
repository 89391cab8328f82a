package models

// DocumentStatus is the lifecycle state of the uploaded document.
type DocumentStatus string

const (
	StatusUnset     DocumentStatus = "unset"
	StatusUploading DocumentStatus = "uploading"
	StatusReady     DocumentStatus = "ready"
	StatusFailed    DocumentStatus = "failed"
)

// Role identifies who produced a conversation entry.
type Role string

const (
	RoleUser        Role = "user"
	RoleAssistant   Role = "assistant"
	RoleSystemError Role = "system-error"
)

const (
	// AskFailedMessage is the content of every system-error entry.
	AskFailedMessage = "Sorry, the question could not be answered. Check the connection to the server and try again."

	UploadEndpoint = "/upload_pdf"
	AskEndpoint    = "/ask"
	HealthEndpoint = "/health"

	UploadFormField = "file"
)
