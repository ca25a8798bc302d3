package api

import (
	"net/http"

	"github.com/starford/memopad/internal/apperr"
	"github.com/starford/memopad/internal/fonts"
	"github.com/starford/memopad/internal/notes"
	"github.com/starford/memopad/internal/pathguard"
)

// FolderWatcher retargets change notifications to a new working folder.
type FolderWatcher interface {
	Set(folder string) error
}

// Handler holds the command handlers.
type Handler struct {
	notes   *notes.Service
	fonts   *fonts.Service
	watcher FolderWatcher
}

// NewHandler creates a Handler. watcher may be nil, in which case
// watch_folder only validates its argument.
func NewHandler(n *notes.Service, f *fonts.Service, watcher FolderWatcher) *Handler {
	return &Handler{notes: n, fonts: f, watcher: watcher}
}

// pickResult writes a picker outcome: the chosen path, or null on cancel.
func pickResult(w http.ResponseWriter, command, path string, ok bool, err error) {
	if err != nil {
		writeError(w, command, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, path)
}

// SelectFolder handles POST /api/commands/select_folder.
func (h *Handler) SelectFolder(w http.ResponseWriter, r *http.Request) {
	path, ok, err := h.notes.SelectFolder(r.Context())
	pickResult(w, "select_folder", path, ok, err)
}

// ListMemos handles POST /api/commands/list_memos.
func (h *Handler) ListMemos(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if !decode(w, r, &req) {
		return
	}
	items, err := h.notes.List(r.Context(), req.FolderPath)
	if err != nil {
		writeError(w, "list_memos", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ReadMemo handles POST /api/commands/read_memo.
func (h *Handler) ReadMemo(w http.ResponseWriter, r *http.Request) {
	var req MemoRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.notes.Read(r.Context(), req.FilePath, req.WorkingFolder)
	if err != nil {
		writeError(w, "read_memo", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// SaveMemo handles POST /api/commands/save_memo.
func (h *Handler) SaveMemo(w http.ResponseWriter, r *http.Request) {
	var req SaveMemoRequest
	if !decode(w, r, &req) {
		return
	}
	meta, err := h.notes.Save(r.Context(), req.FilePath, req.Content, req.WorkingFolder)
	if err != nil {
		writeError(w, "save_memo", err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// CreateMemo handles POST /api/commands/create_memo.
func (h *Handler) CreateMemo(w http.ResponseWriter, r *http.Request) {
	var req CreateMemoRequest
	if !decode(w, r, &req) {
		return
	}
	meta, err := h.notes.Create(r.Context(), req.FolderPath, req.FileName)
	if err != nil {
		writeError(w, "create_memo", err)
		return
	}
	writeJSON(w, http.StatusCreated, meta)
}

// DeleteMemo handles POST /api/commands/delete_memo.
func (h *Handler) DeleteMemo(w http.ResponseWriter, r *http.Request) {
	var req MemoRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.notes.Delete(r.Context(), req.FilePath, req.WorkingFolder); err != nil {
		writeError(w, "delete_memo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenameMemo handles POST /api/commands/rename_memo.
func (h *Handler) RenameMemo(w http.ResponseWriter, r *http.Request) {
	var req RenameMemoRequest
	if !decode(w, r, &req) {
		return
	}
	meta, err := h.notes.Rename(r.Context(), req.FilePath, req.NewName, req.WorkingFolder)
	if err != nil {
		writeError(w, "rename_memo", err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// WatchFolder handles POST /api/commands/watch_folder. Change events for the
// folder are then streamed on /api/events.
func (h *Handler) WatchFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if !decode(w, r, &req) {
		return
	}
	folder, err := pathguard.Canonical(req.FolderPath)
	if err != nil {
		writeError(w, "watch_folder", apperr.InvalidFolder(req.FolderPath))
		return
	}
	if h.watcher != nil {
		if err := h.watcher.Set(folder); err != nil {
			writeError(w, "watch_folder", apperr.InvalidFolder(req.FolderPath))
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// PickFontFile handles POST /api/commands/pick_font_file.
func (h *Handler) PickFontFile(w http.ResponseWriter, r *http.Request) {
	path, ok, err := h.fonts.PickFontFile(r.Context())
	pickResult(w, "pick_font_file", path, ok, err)
}

// InstallFont handles POST /api/commands/install_font.
func (h *Handler) InstallFont(w http.ResponseWriter, r *http.Request) {
	var req InstallFontRequest
	if !decode(w, r, &req) {
		return
	}
	font, err := h.fonts.InstallFont(r.Context(), req.FontFilePath, req.Label)
	if err != nil {
		writeError(w, "install_font", err)
		return
	}
	writeJSON(w, http.StatusCreated, font)
}

// GetInstalledFontPath handles POST /api/commands/get_installed_font_path.
func (h *Handler) GetInstalledFontPath(w http.ResponseWriter, r *http.Request) {
	var req FontRequest
	if !decode(w, r, &req) {
		return
	}
	path, err := h.fonts.GetInstalledFontPath(r.Context(), req.FontID, req.Format)
	if err != nil {
		writeError(w, "get_installed_font_path", err)
		return
	}
	writeJSON(w, http.StatusOK, path)
}

// DeleteInstalledFont handles POST /api/commands/delete_installed_font.
func (h *Handler) DeleteInstalledFont(w http.ResponseWriter, r *http.Request) {
	var req FontRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.fonts.DeleteInstalledFont(r.Context(), req.FontID, req.Format); err != nil {
		writeError(w, "delete_installed_font", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListInstalledFonts handles POST /api/commands/list_installed_fonts.
func (h *Handler) ListInstalledFonts(w http.ResponseWriter, r *http.Request) {
	items, err := h.fonts.ListInstalledFonts(r.Context())
	if err != nil {
		writeError(w, "list_installed_fonts", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
