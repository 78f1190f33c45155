package scheduler

import (
	"fmt"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/ayyushutup/boxbox/log"
	"github.com/ayyushutup/boxbox/pkg/catalog/baseline"
	"github.com/ayyushutup/boxbox/pkg/catalog/compound"
	"github.com/ayyushutup/boxbox/pkg/catalog/scenario"
	"github.com/ayyushutup/boxbox/pkg/predictor"
)

// Registry owns the set of live Sessions, one per connected viewer (§4.2:
// "one interactive peer per session"). Grounded on the teacher's
// livedata_server.go, which keeps an equivalent per-event registry of
// broadcasters behind a mutex.
type Registry struct {
	catalogs  baseline.Catalogs
	scenarios *scenario.Repository
	compounds *compound.Repository
	predictor *predictor.Predictor

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(cats baseline.Catalogs, scenarios *scenario.Repository, compounds *compound.Repository, pred *predictor.Predictor) *Registry {
	return &Registry{
		catalogs:  cats,
		scenarios: scenarios,
		compounds: compounds,
		predictor: pred,
		sessions:  make(map[string]*Session),
	}
}

// Create starts a fresh session and registers it under a new id.
func (r *Registry) Create() (*Session, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("registry: generate session id: %w", err)
	}
	s := NewSession(id.String(), r.catalogs, r.scenarios, r.compounds, r.predictor)

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	log.Info("session created", log.String("session", s.ID()))
	return s, nil
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove tears the session down and drops it from the registry. Per
// §4.2's cancellation contract, viewer disconnect calls this.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return
	}
	s.Close()
	log.Info("session removed", log.String("session", id))
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
