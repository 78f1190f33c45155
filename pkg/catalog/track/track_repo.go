// Package track is the read-only Track catalog (§6: list_tracks,
// get_track). Grounded on the teacher's pkg/repository/track package —
// same plain pgx CRUD shape — generalized from a two-column
// (id, opaque data) telemetry-session table to a jsonb-backed catalog of
// Track records, and given an in-memory fallback so the Engine's own
// tests and any offline tooling never need a live Postgres instance.
package track

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
	seed map[string]model.Track
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, seed: map[string]model.Track{}}
}

// Seed installs an in-memory record, used when no pool is configured
// (tests, `--no-db` local runs) or to pre-warm the catalog at startup.
func (r *Repository) Seed(t model.Track) { r.seed[t.ID] = t }

func (r *Repository) Create(ctx context.Context, t model.Track) error {
	if r.pool == nil {
		r.Seed(t)
		return nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, "insert into track (id, data) values ($1,$2) on conflict (id) do update set data=$2", t.ID, data)
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (model.Track, error) {
	if r.pool == nil {
		t, ok := r.seed[id]
		if !ok {
			return model.Track{}, fmt.Errorf("track %q not found", id)
		}
		return t, nil
	}
	row := r.pool.QueryRow(ctx, "select data from track where id=$1", id)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return model.Track{}, err
	}
	var t model.Track
	if err := json.Unmarshal(raw, &t); err != nil {
		return model.Track{}, err
	}
	return t, nil
}

func (r *Repository) List(ctx context.Context) ([]model.TrackSummary, error) {
	if r.pool == nil {
		out := make([]model.TrackSummary, 0, len(r.seed))
		for _, t := range r.seed {
			out = append(out, t.Summary())
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out, nil
	}
	rows, err := r.pool.Query(ctx, "select data from track order by id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TrackSummary
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var t model.Track
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		out = append(out, t.Summary())
	}
	return out, rows.Err()
}
