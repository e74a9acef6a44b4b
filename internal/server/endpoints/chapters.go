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

// ChapterSummary is the list view of a chapter, omitting the body. The
// cover image is served in structured form regardless of how it was stored.
type ChapterSummary struct {
	Order      int                  `json:"order"`
	Title      string               `json:"title"`
	Slug       string               `json:"slug"`
	Summary    string               `json:"summary"`
	Body       string               `json:"body,omitempty"`
	WordCount  *int                 `json:"word_count,omitempty"`
	Tags       []string             `json:"tags"`
	Themes     []string             `json:"themes"`
	CoverImage *manifest.CoverImage `json:"cover_image,omitempty"`
}

// ListChaptersResponse contains the chapter list.
type ListChaptersResponse struct {
	Chapters []ChapterSummary `json:"chapters"`
}

// ListChaptersEndpoint handles GET /api/chapters. Bodies are omitted
// unless include_body=true is passed.
type ListChaptersEndpoint struct{}

func (e *ListChaptersEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/chapters", e.handler
}

func (e *ListChaptersEndpoint) RequiresInit() bool { return true }

func (e *ListChaptersEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := svcctx.StoreFrom(ctx)
	if st == nil {
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
		return
	}

	chapters, err := st.Chapters(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoImport) {
			writeError(w, http.StatusNotFound, "no manifest imported")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list chapters: "+err.Error())
		return
	}

	includeBody := r.URL.Query().Get("include_body") == "true"

	resp := ListChaptersResponse{
		Chapters: make([]ChapterSummary, len(chapters)),
	}
	for i, ch := range chapters {
		s := ChapterSummary{
			Order:      ch.Order,
			Title:      ch.Title,
			Slug:       ch.Slug,
			Summary:    ch.Summary,
			WordCount:  ch.WordCount,
			Tags:       ch.Tags,
			Themes:     ch.Themes,
			CoverImage: manifest.UpgradeCoverImage(ch.CoverImage),
		}
		if includeBody {
			s.Body = ch.Body
		}
		resp.Chapters[i] = s
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ListChaptersEndpoint) Command(getServerURL func() string) *cobra.Command {
	var includeBody bool
	cmd := &cobra.Command{
		Use:   "chapters",
		Short: "List chapters from the current manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			path := "/api/chapters"
			if includeBody {
				path += "?include_body=true"
			}
			var resp ListChaptersResponse
			if err := client.Get(ctx, path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&includeBody, "include-body", false, "Include chapter bodies in the listing")
	return cmd
}

// GetChapterEndpoint handles GET /api/chapters/{slug}. The chapter's
// cover image, when present, is returned in structured form.
type GetChapterEndpoint struct{}

func (e *GetChapterEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/chapters/{slug}", e.handler
}

func (e *GetChapterEndpoint) RequiresInit() bool { return true }

func (e *GetChapterEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("slug")
	st := svcctx.StoreFrom(ctx)
	if st == nil {
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
		return
	}

	ch, err := st.ChapterBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNoImport) {
			writeError(w, http.StatusNotFound, "no manifest imported")
			return
		}
		if errors.Is(err, store.ErrChapterNotFound) {
			writeError(w, http.StatusNotFound, "chapter not found: "+slug)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load chapter: "+err.Error())
		return
	}

	if ch.CoverImage != nil {
		if cover := manifest.UpgradeCoverImage(ch.CoverImage); cover != nil {
			ch.CoverImage = cover
		}
	}

	writeJSON(w, http.StatusOK, ch)
}

func (e *GetChapterEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "chapter <slug>",
		Short: "Get a chapter by slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp manifest.Chapter
			if err := client.Get(ctx, "/api/chapters/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
