package models

import (
	"fmt"
	"time"
)

// DocumentSession describes the currently uploaded document.
// ChunkCount is set only when Status is ready, LastError only when Status is failed.
type DocumentSession struct {
	Status     DocumentStatus `json:"status"`
	FileName   string         `json:"file_name,omitempty"`
	Pages      int            `json:"pages,omitempty"`
	ChunkCount *int           `json:"chunk_count,omitempty"`
	Message    string         `json:"message,omitempty"`
	LastError  string         `json:"last_error,omitempty"`
}

func UnsetDocument() DocumentSession {
	return DocumentSession{Status: StatusUnset}
}

func UploadingDocument(fileName string, pages int) DocumentSession {
	return DocumentSession{Status: StatusUploading, FileName: fileName, Pages: pages}
}

func ReadyDocument(fileName string, pages, chunks int, message string) DocumentSession {
	return DocumentSession{
		Status:     StatusReady,
		FileName:   fileName,
		Pages:      pages,
		ChunkCount: &chunks,
		Message:    message,
	}
}

func FailedDocument(fileName string, pages int, lastError string) DocumentSession {
	if lastError == "" {
		lastError = "upload failed"
	}
	return DocumentSession{Status: StatusFailed, FileName: fileName, Pages: pages, LastError: lastError}
}

// Clone returns a copy that shares no memory with d.
func (d DocumentSession) Clone() DocumentSession {
	if d.ChunkCount != nil {
		n := *d.ChunkCount
		d.ChunkCount = &n
	}
	return d
}

// Describe renders the one-line status shown to the user.
func (d DocumentSession) Describe() string {
	switch d.Status {
	case StatusUploading:
		if d.Pages > 0 {
			return fmt.Sprintf("Uploading %s (%d pages)...", d.FileName, d.Pages)
		}
		return fmt.Sprintf("Uploading %s...", d.FileName)
	case StatusReady:
		chunks := 0
		if d.ChunkCount != nil {
			chunks = *d.ChunkCount
		}
		if d.Message != "" {
			return fmt.Sprintf("%s is ready: %d chunks indexed (%s)", d.FileName, chunks, d.Message)
		}
		return fmt.Sprintf("%s is ready: %d chunks indexed", d.FileName, chunks)
	case StatusFailed:
		return fmt.Sprintf("Upload of %s failed: %s", d.FileName, d.LastError)
	default:
		return "No document uploaded"
	}
}

// ConversationEntry is one immutable message in the conversation log.
type ConversationEntry struct {
	Sequence  uint64    `json:"sequence"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Sources   string    `json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is a completed, read-only view of the session for presentation.
// Revision increases with every state change.
type Snapshot struct {
	SessionID string              `json:"session_id"`
	Revision  uint64              `json:"revision"`
	Document  DocumentSession     `json:"document"`
	Entries   []ConversationEntry `json:"entries"`
	Pending   bool                `json:"pending"`
	Status    string              `json:"status"`
}
