package service

import (
	"context"

	"playmaker/internal/domain"
	"playmaker/internal/wire"
)

// StorePort adapts a domain.TacticStore to TacticPort.
type StorePort struct {
	Store domain.TacticStore
}

func (p StorePort) LoadTactic(_ context.Context, id string) (*wire.Tactic, error) {
	t, err := p.Store.GetTactic(id)
	if err != nil {
		return nil, err
	}
	return wire.FromDomain(t)
}

func (p StorePort) SaveTactic(ctx context.Context, t *wire.Tactic) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d, err := t.ToDomain()
	if err != nil {
		return err
	}
	if err := p.Store.SaveTactic(d); err != nil {
		return err
	}
	ts := d.UpdatedAt
	t.UpdatedAt = &ts
	return nil
}
