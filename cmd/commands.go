package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"document-rag-client/internal/config"
	"document-rag-client/internal/helper"
	"document-rag-client/internal/models"
)

func newUploadCmd(cfg *config.Config) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document and report how it was indexed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			a := newApp(cfg, cmd.OutOrStdout(), true)
			if err := a.upload(cmd.Context(), path); err != nil {
				return err
			}

			snap := a.controller.Snapshot()
			if asJSON {
				if err := helper.WritePretty(cmd.OutOrStdout(), snap); err != nil {
					return err
				}
			}
			if snap.Document.Status != models.StatusReady {
				return errors.New(snap.Document.LastError)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session snapshot as JSON")
	return cmd
}

func newAskCmd(cfg *config.Config) *cobra.Command {
	var (
		filePath string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "ask [--file <pdf>] <question>...",
		Short: "Optionally upload a document, then ask each question in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := newApp(cfg, cmd.OutOrStdout(), true)

			if filePath != "" {
				if err := a.upload(ctx, filePath); err != nil {
					return err
				}
				if doc := a.controller.Snapshot().Document; doc.Status != models.StatusReady {
					return errors.New(doc.LastError)
				}
			}

			for _, q := range args {
				if err := a.controller.Ask(ctx, q); err != nil {
					a.printer.Notice("Skipping %q: %v", q, err)
				}
			}

			snap := a.controller.Snapshot()
			if asJSON {
				if err := helper.WritePretty(cmd.OutOrStdout(), snap); err != nil {
					return err
				}
			}
			failed := 0
			for _, e := range snap.Entries {
				if e.Role == models.RoleSystemError {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d questions failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "PDF to upload before asking")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session snapshot as JSON")
	return cmd
}

func newHealthCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp(cfg, cmd.OutOrStdout(), false)
			msg, err := a.client.Health(cmd.Context())
			if err != nil {
				return err
			}
			a.printer.Plain("%s: %s", cfg.Backend.BaseURL, msg)
			return nil
		},
	}
}
