package http

import (
	"log/slog"
	"net/http"

	"msme-risk/domain"
	"msme-risk/service"
)

type ExplanationHandler struct {
	ai     *service.AIService
	logger *slog.Logger
}

func NewExplanationHandler(ai *service.AIService, logger *slog.Logger) *ExplanationHandler {
	return &ExplanationHandler{ai: ai, logger: logger}
}

type explanationResponse struct {
	Result        resultView            `json:"result"`
	Contributions []domain.Contribution `json:"contributions"`
	Narrative     string                `json:"narrative"`
	Source        string                `json:"source"`
}

// ExplainRisk scores the posted inputs and breaks the score down by field.
// The body has the same shape as a JSON submission; name is optional.
func (h *ExplanationHandler) ExplainRisk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !isJSON(r) {
		writeError(w, h.logger, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	req := submissionRequest{Inputs: domain.DefaultRiskInputs()}
	if err := decodeJSON(r.Body, &req); err != nil {
		h.logger.Debug("error decoding request body", slog.String("error", err.Error()))
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	exp := h.ai.Explain(r.Context(), req.Name, req.Inputs)
	if !isFinite(exp.Result.Score) {
		writeError(w, h.logger, http.StatusUnprocessableEntity, "inputs produce a score outside the representable range")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, explanationResponse{
		Result:        newResultView(exp.Result),
		Contributions: exp.Contributions,
		Narrative:     exp.Narrative,
		Source:        exp.Source,
	})
}
