package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with every command mounted under /commands.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Route("/commands", func(r chi.Router) {
		// Notes.
		r.Post("/select_folder", h.SelectFolder)
		r.Post("/list_memos", h.ListMemos)
		r.Post("/read_memo", h.ReadMemo)
		r.Post("/save_memo", h.SaveMemo)
		r.Post("/create_memo", h.CreateMemo)
		r.Post("/delete_memo", h.DeleteMemo)
		r.Post("/rename_memo", h.RenameMemo)
		r.Post("/watch_folder", h.WatchFolder)

		// Fonts.
		r.Post("/pick_font_file", h.PickFontFile)
		r.Post("/install_font", h.InstallFont)
		r.Post("/get_installed_font_path", h.GetInstalledFontPath)
		r.Post("/delete_installed_font", h.DeleteInstalledFont)
		r.Post("/list_installed_fonts", h.ListInstalledFonts)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("unknown command"))
	})

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
