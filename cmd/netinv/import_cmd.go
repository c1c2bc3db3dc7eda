package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/netinv-backend/internal/app"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/jobs/orchestrator"
	"github.com/yungbote/netinv-backend/internal/pkg/ctxutil"
)

type importOutput struct {
	Command    string                  `json:"command"`
	DurationMS int64                   `json:"duration_ms"`
	Result     orchestrator.StatusView `json:"result"`
	ReportPath string                  `json:"report_path,omitempty"`
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		entityName string
		file       string
		actor      string
		reportOut  string
		poll       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import one csv or xlsx file and wait for the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, ok := imports.ParseEntity(entityName)
			if !ok {
				return fmt.Errorf("invalid --entity %q", entityName)
			}
			cfg, log, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			ctx := ctxutil.WithRequestData(cmd.Context(), &ctxutil.RequestData{Actor: actor})
			a, err := app.New(ctx, log, cfg)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				_ = a.Shutdown(shutdownCtx)
			}()

			start := time.Now()
			orch := a.Services.Orchestrator
			id, err := orch.Start(ctx, orchestrator.Submission{
				Entity:   entity,
				Filename: filepath.Base(file),
				Body:     f,
				Actor:    ctxutil.Actor(ctx),
			})
			if err != nil {
				return err
			}
			view, err := orch.Wait(ctx, id, poll)
			if err != nil {
				return err
			}

			out := importOutput{
				Command:    "import",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     view,
			}
			if reportOut != "" && view.ReportID != nil {
				if err := saveReport(ctx, orch, id, reportOut); err != nil {
					return err
				}
				out.ReportPath = reportOut
			}
			if err := writeJSON(out); err != nil {
				return err
			}
			if view.Status == imports.JobFailed {
				return fmt.Errorf("import %s failed: %s", id, view.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&entityName, "entity", "", "Target entity, e.g. sites, sectors, cells, inventory (required)")
	cmd.Flags().StringVar(&file, "file", "", "Path to the csv or xlsx file (required)")
	cmd.Flags().StringVar(&actor, "actor", "cli", "Actor recorded in the audit index")
	cmd.Flags().StringVar(&reportOut, "report-out", "", "Write the xlsx report to this path")
	cmd.Flags().DurationVar(&poll, "poll", 500*time.Millisecond, "Status poll interval")
	_ = cmd.MarkFlagRequired("entity")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func saveReport(ctx context.Context, orch *orchestrator.Orchestrator, id uuid.UUID, path string) error {
	rc, _, err := orch.Report(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch report: %w", err)
	}
	defer rc.Close()
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, rc); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}
