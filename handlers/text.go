package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"glasslink/api"
	"glasslink/services/dispatch"
	"glasslink/services/registry"
	textsvc "glasslink/services/text"
)

// maxUploadBytes caps uploaded documents. The glasses read text, not
// books-of-books; anything past this is almost certainly a mistake.
const maxUploadBytes = 8 << 20

// TextHandler accepts document uploads and serves the reader state.
type TextHandler struct {
	Registry *registry.Service
	Executor *dispatch.Executor
}

func NewTextHandler(reg *registry.Service, ex *dispatch.Executor) *TextHandler {
	return &TextHandler{Registry: reg, Executor: ex}
}

// Upload takes a document as either a multipart file field named "file"
// or a JSON body with "text". Markdown is flattened before pagination,
// and page one is pushed to the glasses immediately.
func (h *TextHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	session, err := h.Registry.LookupByUser(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}

	content, fileType, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(content) == "" {
		writeError(w, http.StatusBadRequest, "no text provided")
		return
	}

	display := content
	if fileType == "md" || fileType == "markdown" {
		display = textsvc.FormatMarkdown(content)
	}

	pager := textsvc.NewPager(display, 0)
	if err := h.Registry.SetText(session.ID, display, fileType, pager); err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}
	h.Executor.DisplayCurrentPage(session.ID)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"pageInfo": dispatch.PageInfo{
			CurrentPage: pager.PageNumber(),
			TotalPages:  pager.TotalPages(),
			PageInfo:    pager.PageInfo(),
		},
	})
}

// readUpload extracts the document body and its declared type from
// either encoding.
func readUpload(r *http.Request) (content, fileType string, err error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return "", "", err
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", "", err
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			return "", "", err
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
		if ext == "" {
			ext = "txt"
		}
		return string(data), ext, nil
	}

	var req struct {
		Text     string `json:"text"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&req); err != nil {
		return "", "", err
	}
	if req.FileType == "" {
		req.FileType = "txt"
	}
	return req.Text, strings.ToLower(req.FileType), nil
}

// Full returns the whole uploaded document with its pager position.
func (h *TextHandler) Full(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	session, err := h.Registry.LookupByUser(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}

	content, ok := h.Registry.Text(session.ID)
	if !ok {
		writeError(w, http.StatusNotFound, "no text uploaded")
		return
	}
	pager, _ := h.Registry.Pager(session.ID)

	resp := map[string]any{
		"success":  true,
		"text":     content,
		"fileType": h.Registry.FileType(session.ID),
	}
	if pager != nil {
		resp["pageInfo"] = dispatch.PageInfo{
			CurrentPage: pager.PageNumber(),
			TotalPages:  pager.TotalPages(),
			PageInfo:    pager.PageInfo(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Current returns just the page the reader is on.
func (h *TextHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r)

	session, err := h.Registry.LookupByUser(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, errSessionRequired)
		return
	}

	pager, ok := h.Registry.Pager(session.ID)
	if !ok {
		writeError(w, http.StatusNotFound, "no text uploaded")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"page":    pager.Current(),
		"pageInfo": dispatch.PageInfo{
			CurrentPage: pager.PageNumber(),
			TotalPages:  pager.TotalPages(),
			PageInfo:    pager.PageInfo(),
		},
	})
}
