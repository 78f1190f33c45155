package predictor

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/cors"

	"github.com/ayyushutup/boxbox/log"
	"github.com/ayyushutup/boxbox/pkg/catalog/compound"
	"github.com/ayyushutup/boxbox/pkg/model"
)

// Server wraps a Predictor in the stateless HTTP surface of §6: predict and
// scenario_run, both request/response with no session state retained
// between calls.
type Server struct {
	predictor *Predictor
	compounds *compound.Repository
	defaultN  int
	maxN      int
}

func NewServer(p *Predictor, compounds *compound.Repository, defaultN, maxN int) *Server {
	if defaultN <= 0 {
		defaultN = 500
	}
	if maxN <= 0 {
		maxN = 5000
	}
	return &Server{predictor: p, compounds: compounds, defaultN: defaultN, maxN: maxN}
}

// Handler returns the mux wrapped with a permissive CORS policy, the same
// role rs/cors plays wherever the predictor's stateless endpoint is fronted
// by a browser-based scenario picker.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict/{scenario_id}", s.handlePredict)
	mux.HandleFunc("GET /scenario_run/{scenario_id}", s.handleScenarioRun)

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)
}

type predictRequest struct {
	Modifiers model.Modifiers `json:"modifiers"`
	N         int             `json:"n,omitempty"`
}

type predictResponse struct {
	Baseline    model.RaceState `json:"baseline_state"`
	Predictions Predictions     `json:"predictions"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	scenarioID := r.PathValue("scenario_id")

	var req predictRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, &model.InvalidInputError{Field: "body", Reason: "malformed JSON"})
			return
		}
	}
	n := req.N
	if n <= 0 {
		n = s.defaultN
	}
	if n > s.maxN {
		n = s.maxN
	}

	baseline, preds, err := s.predictor.Predict(r.Context(), scenarioID, req.Modifiers, n)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{Baseline: baseline, Predictions: preds})
}

func (s *Server) handleScenarioRun(w http.ResponseWriter, r *http.Request) {
	scenarioID := r.PathValue("scenario_id")
	result, err := s.predictor.ScenarioRun(r.Context(), scenarioID, s.compounds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("failed to encode predictor response", log.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch err.(type) {
	case *model.InvalidInputError, *model.IllegalCommandError:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// ListenAndServe runs the predictor's HTTP surface until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	log.Info("predictor listening", log.String("addr", addr))
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
