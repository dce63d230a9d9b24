package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	mdconvert "github.com/TimothySu2015/md-converter"
)

// maxRequestBytes bounds the JSON request body (Markdown plus settings).
const maxRequestBytes = 10 << 20

// MIME type for DOCX downloads.
const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// convertRequest is the JSON body for POST /convert.
type convertRequest struct {
	Markdown string          `json:"markdown"`
	Format   string          `json:"format,omitempty"`
	CSS      string          `json:"css,omitempty"`
	HTMLOnly bool            `json:"html_only,omitempty"`
	Page     *pageSettings   `json:"page,omitempty"`
	Footer   *footerSettings `json:"footer,omitempty"`
	TOC      *tocSettings    `json:"toc,omitempty"`
}

type pageSettings struct {
	Size        string  `json:"size,omitempty"`
	Orientation string  `json:"orientation,omitempty"`
	Margin      float64 `json:"margin,omitempty"`
}

type footerSettings struct {
	Position       string `json:"position,omitempty"`
	ShowPageNumber bool   `json:"show_page_number,omitempty"`
	Text           string `json:"text,omitempty"`
}

type tocSettings struct {
	Title    string `json:"title,omitempty"`
	MaxDepth int    `json:"max_depth,omitempty"`
}

// toInput maps the wire request onto the converter input.
func (req *convertRequest) toInput() mdconvert.Input {
	in := mdconvert.Input{
		Markdown: req.Markdown,
		Format:   req.Format,
		CSS:      req.CSS,
		HTMLOnly: req.HTMLOnly,
	}
	if req.Page != nil {
		page := mdconvert.DefaultPageSettings()
		if req.Page.Size != "" {
			page.Size = req.Page.Size
		}
		if req.Page.Orientation != "" {
			page.Orientation = req.Page.Orientation
		}
		if req.Page.Margin != 0 {
			page.Margin = req.Page.Margin
		}
		in.Page = page
	}
	if req.Footer != nil {
		in.Footer = &mdconvert.Footer{
			Position:       req.Footer.Position,
			ShowPageNumber: req.Footer.ShowPageNumber,
			Text:           req.Footer.Text,
		}
	}
	if req.TOC != nil {
		in.TOC = &mdconvert.TOC{
			Title:    req.TOC.Title,
			MaxDepth: req.TOC.MaxDepth,
		}
	}
	return in
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	svc := s.pool.Acquire()
	defer s.pool.Release(svc)

	result, err := svc.Convert(ctx, req.toInput())
	if err != nil {
		jsonError(w, err.Error(), statusForError(err))
		return
	}

	s.writeResult(w, &req, result)
}

// writeResult picks the response representation from the requested format.
// Single-output requests stream raw bytes with the matching content type;
// "both" returns a JSON envelope with base64 payloads (encoding/json
// base64-encodes []byte fields).
func (s *Server) writeResult(w http.ResponseWriter, req *convertRequest, result *mdconvert.Result) {
	switch {
	case req.HTMLOnly:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(result.HTML)

	case req.Format == mdconvert.FormatDOCX:
		w.Header().Set("Content-Type", docxContentType)
		w.Write(result.DOCX)

	case req.Format == mdconvert.FormatBoth:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string][]byte{
			"pdf":  result.PDF,
			"docx": result.DOCX,
		})

	default:
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(result.PDF)
	}
}

// statusForError maps converter errors onto HTTP status codes. Input
// problems are the client's fault; a missing browser is an upstream
// dependency failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, mdconvert.ErrEmptyMarkdown),
		errors.Is(err, mdconvert.ErrInvalidFormat),
		errors.Is(err, mdconvert.ErrInvalidPageSize),
		errors.Is(err, mdconvert.ErrInvalidOrientation),
		errors.Is(err, mdconvert.ErrInvalidMargin),
		errors.Is(err, mdconvert.ErrInvalidFooterPosition),
		errors.Is(err, mdconvert.ErrInvalidTOCDepth):
		return http.StatusBadRequest
	case errors.Is(err, mdconvert.ErrBrowserConnect):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
