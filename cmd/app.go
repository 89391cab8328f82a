package main

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"

	"document-rag-client/internal/config"
	"document-rag-client/internal/helper"
	"document-rag-client/internal/parser"
	"document-rag-client/internal/rag"
	"document-rag-client/internal/session"
)

// app wires one session: backend client, controller and terminal printer.
type app struct {
	cfg        *config.Config
	client     *rag.Client
	controller *session.Controller
	printer    *printer
}

func newApp(cfg *config.Config, out io.Writer, echoUser bool) *app {
	sessionID, err := helper.GenerateUUID()
	if err != nil {
		log.Warn().Err(err).Msg("Could not generate session id")
	}

	p := newPrinter(out, cfg.Chat.ColorEnabled(), echoUser)
	client := rag.NewClient(&cfg.Backend, rag.WithSessionID(sessionID))
	controller := session.NewController(client,
		session.WithSessionID(sessionID),
		session.WithObserver(p.Observe),
	)
	return &app{cfg: cfg, client: client, controller: controller, printer: p}
}

// selectFile turns a path into an upload candidate. An empty path selects nothing, which the
// controller reports as NoFileSelected.
func (a *app) selectFile(path string) (*session.File, error) {
	if path == "" {
		return nil, nil
	}
	f, err := session.OpenFile(path)
	if err != nil {
		return nil, err
	}
	if !a.cfg.Upload.InspectPDFEnabled() {
		if !parser.LooksLikePDF(f.Name) {
			a.printer.Notice("%s does not have a .pdf extension; the server may reject it", f.Name)
		}
		return f, nil
	}

	info, err := parser.InspectPDF(path)
	if err != nil {
		log.Warn().Err(err).Str("file", f.Name).Msg("Could not inspect document")
		return f, nil
	}
	if info.IsPDF {
		f.Pages = info.Pages
	} else if info.Size > 0 {
		a.printer.Notice("%s does not look like a PDF; the server may reject it", f.Name)
	}
	return f, nil
}

// upload selects the file at path and uploads it, reporting selection problems to the user.
func (a *app) upload(ctx context.Context, path string) error {
	f, err := a.selectFile(path)
	if err != nil {
		a.printer.Notice("Cannot open %s: %v", path, err)
		return err
	}
	if err := a.controller.Upload(ctx, f); err != nil {
		a.printer.Notice("Choose a file to upload first")
		return err
	}
	return nil
}

func (a *app) checkHealth(ctx context.Context) {
	msg, err := a.client.Health(ctx)
	if err != nil {
		a.printer.Notice("Server at %s is not reachable: %v", a.cfg.Backend.BaseURL, err)
		return
	}
	log.Info().Str("base_url", a.cfg.Backend.BaseURL).Str("message", msg).Msg("Server is up")
}
