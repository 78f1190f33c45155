// Package driver is the read-only Driver catalog (§6: list_drivers).
package driver

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayyushutup/boxbox/pkg/model"
)

type Repository struct {
	pool *pgxpool.Pool
	seed map[string]model.Driver
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, seed: map[string]model.Driver{}}
}

func (r *Repository) Seed(d model.Driver) { r.seed[d.Code] = d }

func (r *Repository) Create(ctx context.Context, d model.Driver) error {
	if r.pool == nil {
		r.Seed(d)
		return nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, "insert into driver (code, data) values ($1,$2) on conflict (code) do update set data=$2", d.Code, data)
	return err
}

func (r *Repository) List(ctx context.Context) ([]model.Driver, error) {
	if r.pool == nil {
		out := make([]model.Driver, 0, len(r.seed))
		for _, d := range r.seed {
			out = append(out, d)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
		return out, nil
	}
	rows, err := r.pool.Query(ctx, "select data from driver order by code")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Driver
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var d model.Driver
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, code string) (model.Driver, bool) {
	if r.pool == nil {
		d, ok := r.seed[code]
		return d, ok
	}
	row := r.pool.QueryRow(ctx, "select data from driver where code=$1", code)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return model.Driver{}, false
	}
	var d model.Driver
	if err := json.Unmarshal(raw, &d); err != nil {
		return model.Driver{}, false
	}
	return d, true
}
