package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"docum/internal/config"
)

// ParseJSON decodes JSON from the request body into dest. The body is
// capped at config.MaxRequestBytes.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBytes)

	// Unknown fields are ignored; the services validate what they read.
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// ReadBody reads the raw request body, capped at config.MaxRequestBytes.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}
