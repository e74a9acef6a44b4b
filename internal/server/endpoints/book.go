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

// GetBookEndpoint handles GET /api/book. It returns the book metadata
// from the current import.
type GetBookEndpoint struct{}

func (e *GetBookEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/book", e.handler
}

func (e *GetBookEndpoint) RequiresInit() bool { return true }

func (e *GetBookEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := svcctx.StoreFrom(ctx)
	if st == nil {
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
		return
	}

	book, err := st.Book(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoImport) {
			writeError(w, http.StatusNotFound, "no manifest imported")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load book: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, book)
}

func (e *GetBookEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "book",
		Short: "Get book metadata from the current manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp manifest.Book
			if err := client.Get(ctx, "/api/book", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
