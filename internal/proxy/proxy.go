// Package proxy forwards storefront API calls to the upstream catalog API,
// injecting the secret API key so it never reaches the browser.
package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Handler is an http.Handler that relays requests under /api to the
// upstream API.
type Handler struct {
	upstreamBase string
	apiKey       string
	httpClient   *http.Client
}

func NewHandler(upstreamBase, apiKey string) *Handler {
	return &Handler{
		upstreamBase: strings.TrimRight(upstreamBase, "/"),
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if h.apiKey == "" {
		log.Printf("[Proxy] upstream API key not configured")
		writeJSONError(w, http.StatusInternalServerError, "API key not configured", "")
		return
	}

	// Strip the /api prefix before forwarding.
	path := r.URL.Path
	if strings.HasPrefix(path, "/api") {
		path = path[len("/api"):]
	}
	upstreamURL := h.upstreamBase + path
	if r.URL.RawQuery != "" {
		upstreamURL += "?" + r.URL.RawQuery
	}

	log.Printf("[Proxy] %s %s -> %s", r.Method, r.URL.Path, upstreamURL)

	var body io.Reader
	if r.Method != http.MethodGet {
		body = r.Body
	}
	req, err := http.NewRequestWithContext(r.Context(), r.Method, upstreamURL, body)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	req.Header.Set("X-API-Key", h.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if lang := r.Header.Get("Accept-Language"); lang != "" {
		req.Header.Set("Accept-Language", lang)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		log.Printf("[Proxy] upstream request failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("[Proxy] upstream error: %d for %s", resp.StatusCode, upstreamURL)
	}

	copyHeader(w, resp, "Content-Type")
	copyHeader(w, resp, "Content-Length")
	copyHeader(w, resp, "Cache-Control")
	w.WriteHeader(resp.StatusCode)

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/json"),
		strings.HasPrefix(contentType, "image/"):
		// JSON and images stream through untouched.
		if _, err := io.Copy(w, resp.Body); err != nil {
			log.Printf("[Proxy] failed to relay response body: %v", err)
		}
	default:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			log.Printf("[Proxy] failed to read response body: %v", err)
			return
		}
		if _, err := w.Write(data); err != nil {
			log.Printf("[Proxy] failed to write response body: %v", err)
		}
	}
}

func copyHeader(w http.ResponseWriter, resp *http.Response, name string) {
	if value := resp.Header.Get(name); value != "" {
		w.Header().Set(name, value)
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Language")
}

func writeJSONError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload := map[string]string{"error": message}
	if detail != "" {
		payload["message"] = detail
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fmt.Fprintf(w, `{"error":%q}`, message)
	}
}
