package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"msme-risk/domain"
	"msme-risk/service"
)

type resultView struct {
	Score        float64 `json:"score"`
	DisplayScore float64 `json:"display_score"`
	Label        string  `json:"label"`
	Progress     int     `json:"progress"`
	Color        string  `json:"color"`
}

type documentView struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}

type submissionView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Result      resultView        `json:"result"`
	Inputs      domain.RiskInputs `json:"inputs"`
	Documents   []documentView    `json:"documents"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

type errorResponse struct {
	Error  string               `json:"error"`
	Fields []service.FieldError `json:"fields,omitempty"`
}

func newResultView(r domain.RiskResult) resultView {
	return resultView{
		Score:        r.Score,
		DisplayScore: r.DisplayScore(),
		Label:        r.Label.String(),
		Progress:     r.Progress(),
		Color:        r.Label.Color(),
	}
}

func newSubmissionView(s domain.Submission) submissionView {
	docs := make([]documentView, 0, len(s.Documents))
	for _, d := range s.Documents {
		docs = append(docs, documentView{
			Name:        d.Name,
			ContentType: d.ContentType,
			Size:        d.Size,
			URL:         "/risk/submissions/" + s.ID.String() + "/documents/" + url.PathEscape(d.Name),
		})
	}
	return submissionView{
		ID:          s.ID.String(),
		Name:        s.Name,
		Result:      newResultView(s.Result),
		Inputs:      s.Inputs,
		Documents:   docs,
		SubmittedAt: s.SubmittedAt,
	}
}

// writeJSON encodes into a buffer first so a failed encode can still become a 500.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Error("error encoding response", slog.String("error", err.Error()))
		writeError(w, logger, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("error writing response", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string, fields ...service.FieldError) {
	body, err := json.Marshal(errorResponse{Error: msg, Fields: fields})
	if err != nil {
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Warn("error writing response", slog.String("error", err.Error()))
	}
}
