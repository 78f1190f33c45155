// Package compound is the read-only tire Compound catalog.
package compound

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayyushutup/boxbox/pkg/model"
)

type Repository struct {
	pool *pgxpool.Pool
	seed map[model.TireCompound]model.Compound
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, seed: map[model.TireCompound]model.Compound{}}
}

func (r *Repository) Seed(c model.Compound) { r.seed[c.Name] = c }

func (r *Repository) Create(ctx context.Context, c model.Compound) error {
	if r.pool == nil {
		r.Seed(c)
		return nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, "insert into compound (name, data) values ($1,$2) on conflict (name) do update set data=$2", string(c.Name), data)
	return err
}

func (r *Repository) List(ctx context.Context) ([]model.Compound, error) {
	if r.pool == nil {
		out := make([]model.Compound, 0, len(r.seed))
		for _, c := range r.seed {
			out = append(out, c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out, nil
	}
	rows, err := r.pool.Query(ctx, "select data from compound order by name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Compound
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var c model.Compound
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) Available(ctx context.Context) []model.Compound {
	all, _ := r.List(ctx)
	return all
}
