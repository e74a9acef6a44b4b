package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/folio/internal/api"
	"github.com/jackzampolin/folio/internal/fetch"
	"github.com/jackzampolin/folio/internal/manifest"
	"github.com/jackzampolin/folio/internal/schema"
	"github.com/jackzampolin/folio/internal/svcctx"
)

// ImportResponse describes a completed import run.
type ImportResponse struct {
	RunID    string   `json:"run_id"`
	Chapters int      `json:"chapters"`
	Warnings []string `json:"warnings,omitempty"`
}

// ImportEndpoint handles POST /api/import. The request body is the raw
// manifest bytes; they are repaired, validated, and persisted as the new
// current import, replacing any previous one.
type ImportEndpoint struct{}

func (e *ImportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/import", e.handler
}

func (e *ImportEndpoint) RequiresInit() bool { return true }

func (e *ImportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := svcctx.LoggerFrom(ctx)
	st := svcctx.StoreFrom(ctx)
	if st == nil {
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
		return
	}

	maxBytes := int64(fetch.DefaultMaxBytes)
	validate := true
	if mgr := svcctx.ConfigFrom(ctx); mgr != nil {
		cfg := mgr.Get()
		if cfg.Import.MaxBytes > 0 {
			maxBytes = cfg.Import.MaxBytes
		}
		validate = cfg.Import.Validate
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body: "+err.Error())
		return
	}
	if int64(len(raw)) > maxBytes {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("manifest exceeds %d byte limit", maxBytes))
		return
	}
	if len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "empty request body")
		return
	}

	m, err := manifest.Repair(raw)
	if err != nil {
		writeRepairError(w, err)
		return
	}

	var warnings []string
	if validate {
		if err := schema.Validate(m); err != nil {
			log.Warn("manifest failed schema validation", "error", err)
			warnings = append(warnings, "schema validation: "+err.Error())
		}
	}

	runID := uuid.New().String()
	if err := st.Replace(ctx, runID, m); err != nil {
		log.Error("failed to persist import", "run_id", runID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to persist import: "+err.Error())
		return
	}

	log.Info("manifest imported", "run_id", runID, "chapters", len(m.Chapters))
	writeJSON(w, http.StatusOK, ImportResponse{
		RunID:    runID,
		Chapters: len(m.Chapters),
		Warnings: warnings,
	})
}

// writeRepairError maps repair failures to structured 400 responses so
// callers can see which stage rejected the document and where.
func writeRepairError(w http.ResponseWriter, err error) {
	var unrec *manifest.UnrecoverableError
	if errors.As(err, &unrec) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "unrecoverable manifest: " + unrec.Error(),
			Stage:  unrec.Stage,
			Offset: &unrec.Offset,
		})
		return
	}
	var shape *manifest.ShapeError
	if errors.As(err, &shape) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: shape.Error(),
			Stage: "assemble",
		})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func (e *ImportEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file-or-url>",
		Short: "Import a manifest",
		Long:  "Read a manifest from a local file or URL, repair it server-side, and persist it as the current import.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			raw, err := fetch.Read(ctx, args[0], fetch.Options{Timeout: 30 * time.Second})
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			client := api.NewClient(getServerURL())
			var resp ImportResponse
			if err := client.PostRaw(ctx, "/api/import", raw, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
