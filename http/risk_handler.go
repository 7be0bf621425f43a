package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"msme-risk/domain"
	"msme-risk/repository"
	"msme-risk/service"
)

type RiskHandler struct {
	service        *service.AssessmentService
	logger         *slog.Logger
	maxUploadBytes int64
}

func NewRiskHandler(service *service.AssessmentService, logger *slog.Logger, maxUploadBytes int64) *RiskHandler {
	return &RiskHandler{service: service, logger: logger, maxUploadBytes: maxUploadBytes}
}

type submissionRequest struct {
	Name   string            `json:"name"`
	Inputs domain.RiskInputs `json:"inputs"`
}

// ScoreRisk scores the posted inputs without storing anything.
// Omitted fields take the collector's default values.
func (h *RiskHandler) ScoreRisk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !isJSON(r) {
		writeError(w, h.logger, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	inputs := domain.DefaultRiskInputs()
	if err := decodeJSON(r.Body, &inputs); err != nil {
		h.logger.Debug("error decoding request body", slog.String("error", err.Error()))
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	result := h.service.Score(r.Context(), inputs)
	if !isFinite(result.Score) {
		writeError(w, h.logger, http.StatusUnprocessableEntity, "inputs produce a score outside the representable range")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, newResultView(result))
}

// Submissions lists submissions on GET and creates one on POST.
func (h *RiskHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listSubmissions(w, r)
	case http.MethodPost:
		h.createSubmission(w, r)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *RiskHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("error listing submissions", slog.String("error", err.Error()))
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	views := make([]submissionView, 0, len(subs))
	for _, s := range subs {
		views = append(views, newSubmissionView(s))
	}
	writeJSON(w, h.logger, http.StatusOK, views)
}

func (h *RiskHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var (
		input service.SubmitInput
		err   error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		input, err = h.readJSONSubmission(r)
	case "multipart/form-data":
		input, err = h.readMultipartSubmission(r)
	default:
		writeError(w, h.logger, http.StatusUnsupportedMediaType, "Content-Type must be application/json or multipart/form-data")
		return
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, h.logger, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		h.logger.Debug("error decoding submission", slog.String("error", err.Error()))
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.service.Submit(r.Context(), input)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeError(w, h.logger, http.StatusBadRequest, "validation failed", ve.Fields...)
			return
		}
		h.logger.Error("error submitting assessment", slog.String("error", err.Error()))
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Location", "/risk/submissions/"+sub.ID.String())
	writeJSON(w, h.logger, http.StatusCreated, newSubmissionView(sub))
}

func (h *RiskHandler) readJSONSubmission(r *http.Request) (service.SubmitInput, error) {
	req := submissionRequest{Inputs: domain.DefaultRiskInputs()}
	if err := decodeJSON(r.Body, &req); err != nil {
		return service.SubmitInput{}, err
	}
	return service.SubmitInput{Name: req.Name, Inputs: req.Inputs}, nil
}

// readMultipartSubmission reads the "name" and "inputs" (JSON) fields and any "documents" files.
func (h *RiskHandler) readMultipartSubmission(r *http.Request) (service.SubmitInput, error) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return service.SubmitInput{}, err
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	input := service.SubmitInput{
		Name:   r.FormValue("name"),
		Inputs: domain.DefaultRiskInputs(),
	}
	if raw := r.FormValue("inputs"); raw != "" {
		if err := decodeJSON(strings.NewReader(raw), &input.Inputs); err != nil {
			return service.SubmitInput{}, fmt.Errorf("inputs: %w", err)
		}
	}

	for _, fh := range r.MultipartForm.File["documents"] {
		f, err := fh.Open()
		if err != nil {
			return service.SubmitInput{}, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return service.SubmitInput{}, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		input.Documents = append(input.Documents, domain.Document{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return input, nil
}

func (h *RiskHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	sub, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, newSubmissionView(sub))
}

// DownloadDocument streams an uploaded document back as an attachment.
func (h *RiskHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	doc, err := h.service.Document(r.Context(), id, r.PathValue("name"))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		h.logger.Warn("error writing document", slog.String("error", err.Error()))
	}
}

// ListFields returns the collector catalog: bounds, defaults and help text per field.
func (h *RiskHandler) ListFields(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, domain.FieldSpecs())
}

func (h *RiskHandler) submissionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid submission id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *RiskHandler) writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrSubmissionNotFound):
		writeError(w, h.logger, http.StatusNotFound, "submission not found")
	case errors.Is(err, repository.ErrDocumentNotFound):
		writeError(w, h.logger, http.StatusNotFound, "document not found")
	default:
		h.logger.Error("error loading submission", slog.String("error", err.Error()))
		writeError(w, h.logger, http.StatusInternalServerError, "internal server error")
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

func decodeJSON(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
