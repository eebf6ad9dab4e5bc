package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"dndtools/internal/render"
	"dndtools/internal/storage"
)

const maxUploadBytes = 10 << 20 // per file

// UploadPortraits stores portrait images into the campaign's uploads
// directory, where the portraits-sheet job later picks them up. Accepts one
// or more files under the multipart field "files".
func (a *App) UploadPortraits(w http.ResponseWriter, r *http.Request) {
	campaign, ok := a.loadCampaign(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		files = r.MultipartForm.File["file"]
	}
	if len(files) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "no files provided")
		return
	}

	var stored []string
	for _, header := range files {
		name, ok := safeUploadName(header.Filename)
		if !ok {
			a.error(w, http.StatusBadRequest, "unsupported_type", "only .jpg, .jpeg and .png uploads are accepted")
			return
		}
		data, err := readUpload(header)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "failed to read upload")
			return
		}
		if _, err := a.Store.Write(r.Context(), storage.UploadKey(campaign.ID, name), data); err != nil {
			a.Logger.Error().Err(err).Str("filename", name).Msg("handlers: store upload failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to store upload")
			return
		}
		stored = append(stored, name)
	}

	a.json(w, http.StatusCreated, map[string]any{"stored": stored})
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes))
}

// safeUploadName sanitizes the client-supplied filename and restricts the
// extension to the image types the portraits renderer understands.
func safeUploadName(filename string) (string, bool) {
	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		return "", false
	}
	stem := render.SanitizeName(strings.TrimSuffix(base, filepath.Ext(base)))
	return stem + ext, true
}
