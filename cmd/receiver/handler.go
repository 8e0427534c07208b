package main

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/kunai/internal/loop/server"
)

// receiver accepts completion reports and stores the latest one on disk.
type receiver struct {
	output string
	logger *log.Logger
	now    func() time.Time
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newReceiver(output string, logger *log.Logger) *receiver {
	return &receiver{output: output, logger: logger, now: time.Now}
}

func (rc *receiver) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/submit_game_data", rc.submit)
	return mux
}

func (rc *receiver) submit(w http.ResponseWriter, r *http.Request) {
	logger := rc.logger.With("request", uuid.NewString())

	switch r.Method {
	case http.MethodPost:
	case http.MethodGet:
		logger.Warn("received GET instead of POST")
		writeJSON(w, http.StatusMethodNotAllowed, response{Error: "Expected POST, received GET"})
		return
	default:
		writeJSON(w, http.StatusMethodNotAllowed, response{Error: "Expected POST"})
		return
	}

	if !isJSON(r.Header.Get("Content-Type")) {
		logger.Warn("received non-JSON request", "contentType", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusBadRequest, response{Error: "Request must be JSON"})
		return
	}

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		logger.Warn("invalid JSON body", "err", err)
		writeJSON(w, http.StatusBadRequest, response{Error: "Request must be JSON"})
		return
	}

	logFields := []any{"runID", r.Header.Get("X-Run-ID")}
	if text, ok := data["Collisions"].(string); ok {
		if n, ok := server.ParseCollisions(text); ok {
			logFields = append(logFields, "collisions", n)
		} else {
			logger.Warn("malformed collision display", "text", text)
		}
	}
	logger.Info("received report", logFields...)

	data["_received_timestamp"] = rc.now().Format(time.RFC3339Nano)

	if err := writeFileAtomic(rc.output, data); err != nil {
		logger.Error("failed to save report", "path", rc.output, "err", err)
		writeJSON(w, http.StatusInternalServerError, response{Error: fmt.Sprintf("Failed to save data: %v", err)})
		return
	}

	logger.Info("report saved", "path", rc.output)
	writeJSON(w, http.StatusOK, response{Success: true, Message: "Data received and saved."})
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// writeFileAtomic replaces path with the indented JSON encoding of v.
func writeFileAtomic(path string, v any) error {
	body, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".receiver-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
