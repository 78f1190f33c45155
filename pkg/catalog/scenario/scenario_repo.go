// Package scenario is the read-only Scenario catalog (§6: list_scenarios,
// get_scenario): starting grid, lap count, weather baseline, forced
// events, plus the descriptive metadata SPEC_FULL §11 supplements from
// the original's scenarios/catalog.py.
package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayyushutup/boxbox/pkg/model"
)

type Repository struct {
	pool *pgxpool.Pool
	seed map[string]model.Scenario
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, seed: map[string]model.Scenario{}}
}

func (r *Repository) Seed(s model.Scenario) { r.seed[s.ID] = s }

func (r *Repository) Create(ctx context.Context, s model.Scenario) error {
	if r.pool == nil {
		r.Seed(s)
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		"insert into scenario (id, track_id, data) values ($1,$2,$3) on conflict (id) do update set track_id=$2, data=$3",
		s.ID, s.TrackID, data)
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (model.Scenario, error) {
	if r.pool == nil {
		s, ok := r.seed[id]
		if !ok {
			return model.Scenario{}, fmt.Errorf("scenario %q not found", id)
		}
		return s, nil
	}
	row := r.pool.QueryRow(ctx, "select data from scenario where id=$1", id)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return model.Scenario{}, err
	}
	var s model.Scenario
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.Scenario{}, err
	}
	return s, nil
}

func (r *Repository) List(ctx context.Context) ([]model.ScenarioSummary, error) {
	if r.pool == nil {
		out := make([]model.ScenarioSummary, 0, len(r.seed))
		for _, s := range r.seed {
			out = append(out, s.Summary())
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out, nil
	}
	rows, err := r.pool.Query(ctx, "select data from scenario order by id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ScenarioSummary
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var s model.Scenario
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		out = append(out, s.Summary())
	}
	return out, rows.Err()
}
