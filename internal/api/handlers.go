// Package api exposes the assembly pipeline over HTTP (chi) and MCP.
// All HTTP routes except the health probe sit behind bearer auth.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/devo/internal/audit"
	"github.com/kalambet/devo/internal/devotional"
	"github.com/kalambet/devo/internal/pipeline"
	"github.com/kalambet/devo/internal/scripture"
)

const maxRequestBodySize = 10 << 20 // 10MB

// BookRunner runs the full assembly pipeline for one request.
type BookRunner interface {
	Run(ctx context.Context, input devotional.Input, seriesID string) (pipeline.Result, error)
}

// UsageLedger is the registry read surface the API exposes.
type UsageLedger interface {
	AuthorDistribution(volumeID string) (map[string]int, error)
	ParentDistribution(parentVolumeID, attribute string) (map[string]int, error)
}

// ScriptureSource retrieves a verified passage or a failure alert.
type ScriptureSource interface {
	Retrieve(ctx context.Context, reference, translation, operatorImport string) (*scripture.Result, *scripture.FailureAlert, error)
}

type AppDeps struct {
	Runner    BookRunner
	Ledger    UsageLedger
	Scripture ScriptureSource
	Auditor   *audit.Auditor
	Token     string
}

func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))
		r.Post("/api/generate", handleGenerate(deps))
		r.Post("/api/audit", handleAudit(deps))
		r.Post("/api/scripture", handleScripture(deps))
		r.Get("/api/volumes/{id}/authors", handleAuthors(deps))
		r.Get("/api/volumes/{id}/distribution", handleDistribution(deps))
	})

	return r
}

type GenerateRequest struct {
	Topic      string `json:"topic"`
	NumDays    int    `json:"num_days"`
	OutputMode string `json:"output_mode"`
	Title      string `json:"title"`
	SeriesID   string `json:"series_id"`
}

type GenerateResponse struct {
	Book       devotional.Book             `json:"book"`
	Summary    pipeline.ValidationSummary  `json:"validation_summary"`
	ExportGate pipeline.ExportabilityResult `json:"export_gate"`
	VolumeID   string                      `json:"volume_id"`
	PDFBase64  string                      `json:"pdf_base64,omitempty"`
}

func handleGenerate(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Topic == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "topic is required")
			return
		}
		if req.NumDays == 0 {
			req.NumDays = 6
		}

		input, err := devotional.NewInput(req.Topic, req.NumDays, devotional.OutputMode(req.OutputMode))
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		input.Title = req.Title

		result, err := deps.Runner.Run(r.Context(), input, req.SeriesID)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "pipeline failed: %v", err)
			return
		}

		resp := GenerateResponse{
			Book:       result.Book,
			Summary:    result.Summary,
			ExportGate: result.ExportGate,
			VolumeID:   result.RegistryVolumeID,
		}
		if len(result.PDF) > 0 {
			resp.PDFBase64 = base64.StdEncoding.EncodeToString(result.PDF)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

type AuditRequest struct {
	Days []devotional.Day `json:"days"`
}

func handleAudit(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req AuditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if len(req.Days) == 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "days is required")
			return
		}

		results := deps.Auditor.Audit(req.Days)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(results)
	}
}

type ScriptureRequest struct {
	Reference   string `json:"reference"`
	Translation string `json:"translation"`
}

func handleScripture(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req ScriptureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Reference == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "reference is required")
			return
		}
		if req.Translation == "" {
			req.Translation = "NASB"
		}

		result, alert, err := deps.Scripture.Retrieve(r.Context(), req.Reference, req.Translation, "")
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "retrieval failed: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if alert != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(alert)
			return
		}
		json.NewEncoder(w).Encode(result)
	}
}

func handleAuthors(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		volumeID := chi.URLParam(r, "id")
		dist, err := deps.Ledger.AuthorDistribution(volumeID)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to read distribution: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dist)
	}
}

func handleDistribution(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		volumeID := chi.URLParam(r, "id")
		attribute := r.URL.Query().Get("attribute")
		if attribute == "" {
			attribute = "author"
		}

		dist, err := deps.Ledger.ParentDistribution(volumeID, attribute)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dist)
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
