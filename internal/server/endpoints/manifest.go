package endpoints

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/folio/internal/api"
	"github.com/jackzampolin/folio/internal/manifest"
	"github.com/jackzampolin/folio/internal/store"
	"github.com/jackzampolin/folio/internal/svcctx"
)

// GetManifestEndpoint handles GET /api/manifest. It returns the full
// canonical manifest from the current import.
type GetManifestEndpoint struct{}

func (e *GetManifestEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/manifest", e.handler
}

func (e *GetManifestEndpoint) RequiresInit() bool { return true }

func (e *GetManifestEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := svcctx.StoreFrom(ctx)
	if st == nil {
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
		return
	}

	m, err := st.Manifest(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoImport) {
			writeError(w, http.StatusNotFound, "no manifest imported")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load manifest: "+err.Error())
		return
	}

	// Serve chapters in display order; on-disk manifest order is advisory.
	// A nil sorted list would marshal the chapters key as null, so an
	// empty index leaves the stored (already empty) list in place.
	if sorted, err := st.Chapters(ctx); err == nil && len(sorted) > 0 && len(sorted) == len(m.Chapters) {
		m.Chapters = sorted
	}

	writeJSON(w, http.StatusOK, m)
}

func (e *GetManifestEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Get the current manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp manifest.Manifest
			if err := client.Get(ctx, "/api/manifest", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
