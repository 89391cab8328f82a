// Package transcript renders a conversation snapshot as Markdown or HTML for export.
package transcript

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"document-rag-client/internal/models"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// FormatForPath picks the export format from the file extension; unknown extensions get Markdown.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatMarkdown
	}
}

func Render(snap models.Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatHTML:
		return HTML(snap)
	case FormatMarkdown:
		return []byte(Markdown(snap)), nil
	default:
		return nil, fmt.Errorf("unsupported transcript format %q", format)
	}
}

func Markdown(snap models.Snapshot) string {
	var b strings.Builder
	title := "Conversation"
	if snap.Document.FileName != "" {
		title = fmt.Sprintf("Conversation about %s", snap.Document.FileName)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "_%s_\n\n", snap.Status)

	if len(snap.Entries) == 0 {
		b.WriteString("No messages yet.\n")
		return b.String()
	}

	for _, e := range snap.Entries {
		fmt.Fprintf(&b, "### %s\n\n", speaker(e.Role))
		b.WriteString(strings.TrimSpace(e.Content))
		b.WriteString("\n\n")
		if e.Sources != "" {
			for _, line := range strings.Split(strings.TrimSpace(e.Sources), "\n") {
				fmt.Fprintf(&b, "> %s\n", line)
			}
			b.WriteString("\n")
		}
	}
	if snap.Pending {
		b.WriteString("_Waiting for an answer..._\n")
	}
	return b.String()
}

func HTML(snap models.Snapshot) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(snap)), &body); err != nil {
		return nil, fmt.Errorf("render transcript: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Conversation</title></head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

func speaker(role models.Role) string {
	switch role {
	case models.RoleUser:
		return "You"
	case models.RoleAssistant:
		return "Assistant"
	case models.RoleSystemError:
		return "Error"
	default:
		return string(role)
	}
}
