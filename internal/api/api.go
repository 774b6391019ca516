// Package api provides the HTTP API of sdn-vcard: vCard conversion between
// the text, xCard, jCard, hCard and QR forms, and access to stored
// documents.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	logging "github.com/ipfs/go-log/v2"

	"github.com/spacedatanetwork/sdn-vcard/internal/store"
	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

var log = logging.Logger("vcard-api")

// Response headers.
const (
	HeaderWarnings = "X-Vcard-Warnings"
	HeaderCount    = "X-Vcard-Count"
	HeaderID       = "X-Vcard-Id"
	HeaderCID      = "X-Vcard-Cid"
)

// DefaultMaxBodySize is the request body limit when none is configured.
const DefaultMaxBodySize = 1 << 20

// ConvertHandler handles vCard conversion requests.
type ConvertHandler struct {
	converter   *Converter
	store       *store.Store
	defaults    ConversionOptions
	maxBodySize int64
}

// NewConvertHandler creates a conversion handler. st may be nil, in which
// case ?store=true is rejected.
func NewConvertHandler(converter *Converter, st *store.Store, defaults ConversionOptions, maxBodySize int64) *ConvertHandler {
	if converter == nil {
		converter = NewConverter(nil)
	}
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}
	return &ConvertHandler{
		converter:   converter,
		store:       st,
		defaults:    defaults,
		maxBodySize: maxBodySize,
	}
}

// RegisterRoutes registers the conversion and document routes.
func (h *ConvertHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/v1/vcard/convert", h)
	mux.HandleFunc("/api/v1/vcard/documents", h.handleList)
	mux.HandleFunc("/api/v1/vcard/documents/", h.handleDocument)
}

// ServeHTTP handles HTTP requests for conversion.
func (h *ConvertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleConvert(w, r)
	case http.MethodGet:
		h.handleInfo(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleConvert converts the request body. Query parameters: to, from,
// version, indent, prodid, base, size and store.
func (h *ConvertHandler) handleConvert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodySize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read request body: %v", err))
		return
	}
	defer r.Body.Close()
	if int64(len(body)) > h.maxBodySize {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	opts, err := h.options(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	persist := parseBool(r, "store")
	if persist && h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "document store unavailable")
		return
	}

	result, err := h.converter.Convert(r.Context(), body, opts)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrUnsupportedFormat) {
			status = http.StatusNotAcceptable
		}
		writeError(w, status, fmt.Sprintf("Conversion failed: %v", err))
		return
	}

	if persist {
		rec, err := h.store.Put(result.Format, r.URL.Query().Get("name"), result.Body)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to store document: %v", err))
			return
		}
		w.Header().Set(HeaderID, rec.ID)
		w.Header().Set(HeaderCID, rec.CID)
	}

	for _, warning := range result.Warnings {
		w.Header().Add(HeaderWarnings, warning)
	}
	w.Header().Set(HeaderCount, strconv.Itoa(result.Cards))
	w.Header().Set("Content-Type", result.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Body)

	log.Infof("Converted %d vCards to %s (%d warnings)", result.Cards, result.Format, len(result.Warnings))
}

func (h *ConvertHandler) options(r *http.Request) (ConversionOptions, error) {
	q := r.URL.Query()
	opts := h.defaults
	if v := q.Get("to"); v != "" {
		opts.To = v
	}
	if v := q.Get("from"); v != "" {
		opts.From = v
	} else if ct := r.Header.Get("Content-Type"); ct != "" {
		if from := formatFromContentType(ct); from != "" {
			opts.From = from
		}
	}
	if v := q.Get("version"); v != "" {
		version, err := vcard.ParseVersion(v)
		if err != nil {
			return opts, err
		}
		opts.Version = version
	}
	if v := q.Get("indent"); v != "" {
		indent, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid indent %q", v)
		}
		opts.Indent = indent
	}
	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid size %q", v)
		}
		opts.QRSize = size
	}
	if v := q.Get("prodid"); v != "" {
		opts.AddProdID = parseBool(r, "prodid")
	}
	if v := q.Get("base"); v != "" {
		opts.BaseURL = v
	}
	return opts, nil
}

func formatFromContentType(ct string) string {
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "vcard+xml"):
		return store.FormatXML
	case strings.Contains(ct, "vcard+json"):
		return store.FormatJSON
	case strings.Contains(ct, "text/html"):
		return store.FormatHTML
	case strings.Contains(ct, "image/png"):
		return store.FormatQR
	case strings.Contains(ct, "text/vcard"), strings.Contains(ct, "text/x-vcard"):
		return store.FormatText
	}
	return ""
}

// handleInfo returns information about the API.
func (h *ConvertHandler) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "vCard Conversion API",
		"version":     vcard.LibraryVersion,
		"description": "Convert vCards between text (2.1, 3.0, 4.0), xCard, jCard, hCard and QR code",
		"endpoints": map[string]interface{}{
			"POST /api/v1/vcard/convert": map[string]interface{}{
				"description": "Convert the request body",
				"parameters": map[string]string{
					"to":      "Output format: text, xml, json, html or qr (default: " + h.defaults.To + ")",
					"from":    "Input format (default: from Content-Type, else text)",
					"version": "Text output version: 2.1, 3.0 or 4.0",
					"indent":  "xml/json indentation, negative for one line",
					"prodid":  "Add a PRODID naming this library (true/false)",
					"base":    "Base URL for relative links in html input",
					"size":    "QR code size in pixels",
					"store":   "Store the result (true/false)",
					"name":    "Name of the stored document",
				},
				"headers": map[string]string{
					HeaderWarnings: "One value per warning",
					HeaderCount:    "Number of vCards converted",
					HeaderID:       "ID of the stored document",
					HeaderCID:      "CID of the stored document",
				},
			},
			"GET /api/v1/vcard/documents":      "List stored documents",
			"GET /api/v1/vcard/documents/{id}": "Fetch a stored document by ID or CID",
		},
	}
	writeJSON(w, http.StatusOK, info)
}

type documentInfo struct {
	ID        string `json:"id"`
	CID       string `json:"cid"`
	Format    string `json:"format"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (h *ConvertHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.ensureStore(w) {
		return
	}
	recs, err := h.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	docs := make([]documentInfo, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, documentInfo{
			ID:        rec.ID,
			CID:       rec.CID,
			Format:    rec.Format,
			Name:      rec.Name,
			CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

// handleDocument serves GET and DELETE on a stored document. The key is
// either a document ID or a CID.
func (h *ConvertHandler) handleDocument(w http.ResponseWriter, r *http.Request) {
	if !h.ensureStore(w) {
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/api/v1/vcard/documents/")
	if key == "" || strings.Contains(key, "/") {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := h.store.Get(key)
		if errors.Is(err, store.ErrNotFound) {
			rec, err = h.store.GetByCID(key)
		}
		if err != nil {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		w.Header().Set(HeaderID, rec.ID)
		w.Header().Set(HeaderCID, rec.CID)
		w.Header().Set("Content-Type", contentTypes[rec.Format])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(rec.Body)
	case http.MethodDelete:
		if err := h.store.Delete(key); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, store.ErrNotFound) {
				status = http.StatusNotFound
			}
			writeError(w, status, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ConvertHandler) ensureStore(w http.ResponseWriter) bool {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "document store unavailable")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
		},
	})
}

func parseBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(key)))
	return v
}
