package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-rag-client/internal/config"
	"document-rag-client/internal/helper"
	"document-rag-client/internal/session"
	"document-rag-client/internal/transcript"
)

const chatHelp = `Type a question and press Enter.
Commands:
  /upload <file>   upload a PDF (clears the conversation)
  /status          show the document and request status
  /history         print the whole conversation
  /export <file>   save the conversation (.md or .html)
  /help            show this help
  /quit            exit`

func newChatCmd(cfg *config.Config) *cobra.Command {
	var (
		filePath   string
		background bool
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation about a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp(cfg, cmd.OutOrStdout(), false)
			r := &repl{app: a, in: cmd.InOrStdin(), background: background}
			return r.run(cmd.Context(), filePath)
		},
	}
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "PDF to upload when the chat starts")
	cmd.Flags().BoolVar(&background, "background", true, "Keep reading input while a request is running")
	return cmd
}

// repl reads lines from in. With background set, uploads and questions run in their own
// goroutines so a new upload can supersede a pending question.
type repl struct {
	app        *app
	in         io.Reader
	background bool
	wg         sync.WaitGroup
}

// run returns on /quit, interrupt or end of input. Quit and interrupt cancel in-flight
// requests; at end of input they are allowed to finish.
func (r *repl) run(parent context.Context, filePath string) error {
	a := r.app
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	stop := func() {
		a.printer.Close()
		cancel()
	}

	if a.cfg.Backend.HealthCheck {
		a.checkHealth(ctx)
	}
	a.printer.Plain("Session %s. Type /help for commands.", a.controller.SessionID())
	if filePath != "" {
		r.dispatch(func() { _ = a.upload(ctx, filePath) })
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	defer r.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			stop()
			a.printer.Plain("Interrupted")
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := r.handle(ctx, strings.TrimSpace(line)); quit {
				stop()
				a.printer.Plain("Bye!")
				return nil
			}
		}
	}
}

func (r *repl) handle(ctx context.Context, line string) bool {
	a := r.app
	if !strings.HasPrefix(line, "/") {
		if line == "" {
			return false
		}
		if a.controller.Snapshot().Pending {
			a.printer.Notice("Still waiting for the previous answer")
			return false
		}
		r.dispatch(func() { r.ask(ctx, line) })
		return false
	}

	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch command {
	case "/quit", "/exit":
		return true
	case "/help":
		a.printer.Plain(chatHelp)
	case "/upload":
		r.dispatch(func() { _ = a.upload(ctx, arg) })
	case "/status":
		snap := a.controller.Snapshot()
		a.printer.Plain("%s", snap.Status)
		if snap.Pending {
			a.printer.Plain("Waiting for an answer")
		}
		a.printer.Plain("%d messages", len(snap.Entries))
	case "/history":
		a.printer.History(a.controller.Snapshot())
	case "/export":
		r.export(arg)
	default:
		a.printer.Notice("Unknown command %s, type /help", command)
	}
	return false
}

func (r *repl) ask(ctx context.Context, question string) {
	err := r.app.controller.Ask(ctx, question)
	switch {
	case errors.Is(err, session.ErrRequestInProgress):
		r.app.printer.Notice("Still waiting for the previous answer")
	case err != nil:
		r.app.printer.Notice("%v", err)
	}
}

func (r *repl) export(path string) {
	if path == "" {
		r.app.printer.Notice("Usage: /export <file.md|file.html>")
		return
	}
	data, err := transcript.Render(r.app.controller.Snapshot(), transcript.FormatForPath(path))
	if err == nil {
		err = helper.WriteFile(path, data)
	}
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Export failed")
		r.app.printer.Notice("Export failed: %v", err)
		return
	}
	r.app.printer.Plain("Saved conversation to %s", path)
}

func (r *repl) dispatch(fn func()) {
	if !r.background {
		fn()
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn()
	}()
}
