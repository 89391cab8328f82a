package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is written by the chat goroutines while the test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// chatRun drives the chat command in its default background mode through a pipe.
type chatRun struct {
	t    *testing.T
	in   *io.PipeWriter
	out  *syncBuffer
	done chan error
}

func startChat(t *testing.T, configPath string) *chatRun {
	t.Helper()
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	run := &chatRun{t: t, in: pw, out: &syncBuffer{}, done: make(chan error, 1)}
	go func() { run.done <- runCmd(pr, run.out, "--config", configPath, "chat") }()
	return run
}

func (r *chatRun) send(line string) {
	r.t.Helper()
	_, err := io.WriteString(r.in, line+"\n")
	require.NoError(r.t, err)
}

func (r *chatRun) waitFor(text string) {
	r.t.Helper()
	require.Eventually(r.t, func() bool { return strings.Contains(r.out.String(), text) },
		2*time.Second, 10*time.Millisecond, "output never contained %q:\n%s", text, r.out.String())
}

func (r *chatRun) wait() error {
	r.t.Helper()
	select {
	case err := <-r.done:
		return err
	case <-time.After(2 * time.Second):
		r.t.Fatal("chat did not exit")
		return nil
	}
}

func awaitSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s did not happen", what)
	}
}

func TestChatCommandUploadSupersedesPendingAsk(t *testing.T) {
	askStarted := make(chan struct{}, 1)
	askDone := make(chan struct{})
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/ask", func(w http.ResponseWriter, r *http.Request) {
		defer close(askDone)
		askStarted <- struct{}{}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		fmt.Fprint(w, `{"answer":"stale answer"}`)
	})
	mux.HandleFunc("/upload_pdf", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chunks": 3}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	configPath, pdfPath := writeFixtures(t, server.URL)

	chat := startChat(t, configPath)
	chat.send("What changed?")
	awaitSignal(t, askStarted, "ask request")

	chat.send("/upload " + pdfPath)
	chat.waitFor("[report.pdf is ready: 3 chunks indexed]")

	close(release)
	awaitSignal(t, askDone, "stale answer")

	chat.send("/status")
	chat.waitFor("0 messages")
	chat.send("/quit")
	require.NoError(t, chat.wait())

	out := chat.out.String()
	assert.NotContains(t, out, "assistant>")
	assert.NotContains(t, out, "stale answer")
	assert.True(t, strings.HasSuffix(out, "Bye!\n"), out)
}

func TestChatCommandQuitCancelsPendingAsk(t *testing.T) {
	askStarted := make(chan struct{}, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/ask", func(w http.ResponseWriter, r *http.Request) {
		askStarted <- struct{}{}
		select {
		case <-r.Context().Done():
			return
		case <-time.After(5 * time.Second):
		}
		fmt.Fprint(w, `{"answer":"late"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	configPath, _ := writeFixtures(t, server.URL)

	chat := startChat(t, configPath)
	chat.send("question")
	awaitSignal(t, askStarted, "ask request")

	start := time.Now()
	chat.send("/quit")
	require.NoError(t, chat.wait())
	assert.Less(t, time.Since(start), time.Second)

	out := chat.out.String()
	assert.True(t, strings.HasSuffix(out, "Bye!\n"), out)
	assert.NotContains(t, out, "late")
	assert.NotContains(t, out, "error>")
}

func TestChatCommandWarnsAboutExtensionWithoutInspection(t *testing.T) {
	server := fakeServer(t, http.StatusOK)
	configPath, pdfPath := writeFixtures(t, server.URL)

	f, err := os.OpenFile(configPath, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("upload:\n  inspect_pdf: false\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	notes := filepath.Join(filepath.Dir(pdfPath), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("plain text"), 0o644))

	out, err := execute(t, "/upload "+notes+"\n", "--config", configPath, "chat", "--background=false")
	require.NoError(t, err)
	assert.Contains(t, out, "notes.txt does not have a .pdf extension")
	assert.Contains(t, out, "[notes.txt is ready: 5 chunks indexed]")
}
