package documents

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/estimator/pkg/adapters"
	"github.com/de-tools/estimator/pkg/assembler"
	"github.com/de-tools/estimator/pkg/models/api"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/pricing"
	"github.com/de-tools/estimator/pkg/services/documents"
	sqlstore "github.com/de-tools/estimator/pkg/store/sql"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxBundleBytes = 8 << 20

type Handler struct {
	docs documents.Service
}

func NewHandler(docs documents.Service) *Handler {
	return &Handler{docs: docs}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, sqlstore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, assembler.ErrUnknownKind),
		errors.Is(err, assembler.ErrNilBundle),
		errors.Is(err, assembler.ErrSectionOrder),
		errors.Is(err, pricing.ErrNegativePercent):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, err error, msg string) {
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg(msg)
	} else {
		logger.Warn().Err(err).Msg(msg)
	}
	writeJSON(w, r, status, api.Error{Error: msg + ": " + err.Error()})
}

// Totals prices a bundle posted as JSON.
func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	var bundle api.BundleFile
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBundleBytes)).Decode(&bundle); err != nil {
		h.fail(w, r, http.StatusBadRequest, err, "invalid bundle")
		return
	}
	records, err := adapters.MapBundleFileToRecords(bundle)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, err, "invalid bundle")
		return
	}

	var kind domain.Kind
	if bundle.Kind != "" {
		if kind, err = domain.ParseKind(bundle.Kind); err != nil {
			h.fail(w, r, http.StatusBadRequest, err, "invalid bundle")
			return
		}
	}

	totals, err := h.docs.Totals(r.Context(), kind, records)
	if err != nil {
		h.fail(w, r, statusOf(err), err, "could not compute totals")
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapTotalsDomainToApi(totals))
}

func (h *Handler) ProjectTotals(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")

	totals, err := h.docs.ProjectTotals(r.Context(), project)
	if err != nil {
		h.fail(w, r, statusOf(err), err, "could not compute totals")
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapTotalsDomainToApi(totals))
}

// Publish generates a document for a stored project and answers with the
// receipt of the stored artifact.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.fail(w, r, http.StatusNotFound, err, "unknown document kind")
		return
	}

	pub, err := h.docs.Publish(r.Context(), project, kind)
	if err != nil {
		h.fail(w, r, statusOf(err), err, "could not generate document")
		return
	}
	writeJSON(w, r, http.StatusCreated, adapters.MapReceiptDomainToApi(pub.Receipt, pub.Warnings))
}
