package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"document-rag-client/internal/models"
)

// printer renders session snapshots to the terminal. It prints each entry once and the status
// line whenever it changes.
type printer struct {
	mu         sync.Mutex
	out        io.Writer
	echoUser   bool
	closed     bool
	lastSeq    uint64
	lastStatus string

	status    *color.Color
	user      *color.Color
	assistant *color.Color
	sources   *color.Color
	failure   *color.Color
}

func newPrinter(out io.Writer, useColor, echoUser bool) *printer {
	p := &printer{
		out:       out,
		echoUser:  echoUser,
		status:    color.New(color.FgYellow),
		user:      color.New(color.FgCyan, color.Bold),
		assistant: color.New(color.FgGreen),
		sources:   color.New(color.Faint),
		failure:   color.New(color.FgRed, color.Bold),
	}
	if !useColor {
		for _, c := range []*color.Color{p.status, p.user, p.assistant, p.sources, p.failure} {
			c.DisableColor()
		}
	}
	return p
}

// Observe is registered as the session observer.
func (p *printer) Observe(snap models.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	if snap.Status != p.lastStatus {
		p.lastStatus = snap.Status
		p.status.Fprintf(p.out, "[%s]\n", snap.Status)
	}
	for _, e := range snap.Entries {
		if e.Sequence <= p.lastSeq {
			continue
		}
		p.lastSeq = e.Sequence
		p.printEntry(e)
	}
}

// History prints the whole conversation regardless of what was already shown.
func (p *printer) History(snap models.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(snap.Entries) == 0 {
		fmt.Fprintln(p.out, "No messages yet.")
		return
	}
	for _, e := range snap.Entries {
		if e.Role == models.RoleUser {
			p.user.Fprintf(p.out, "you> ")
			fmt.Fprintln(p.out, e.Content)
			continue
		}
		p.printEntry(e)
	}
}

// Close stops Observe from printing. Notice and Plain still write.
func (p *printer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func (p *printer) Notice(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) Plain(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) printEntry(e models.ConversationEntry) {
	switch e.Role {
	case models.RoleUser:
		if p.echoUser {
			p.user.Fprintf(p.out, "you> ")
			fmt.Fprintln(p.out, e.Content)
		}
	case models.RoleAssistant:
		p.assistant.Fprintf(p.out, "assistant> ")
		fmt.Fprintln(p.out, e.Content)
		if e.Sources != "" {
			p.sources.Fprintf(p.out, "  sources: %s\n", strings.ReplaceAll(e.Sources, "\n", "; "))
		}
	case models.RoleSystemError:
		p.failure.Fprintf(p.out, "error> %s\n", e.Content)
	}
}
