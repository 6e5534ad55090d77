package repository

import (
	"context"

	"github.com/mncort/forestalApp-sub000/internal/infra"
	"github.com/mncort/forestalApp-sub000/internal/model"
)

const tablaClientes = "clientes"

type ClienteRepository interface {
	FindByID(ctx context.Context, id string) (*model.Cliente, error)
}

type clienteRepo struct{ store *infra.RecordStore }

func NewClienteRepository(store *infra.RecordStore) ClienteRepository {
	return &clienteRepo{store: store}
}

func (r *clienteRepo) FindByID(ctx context.Context, id string) (*model.Cliente, error) {
	var c model.Cliente
	if err := r.store.Get(ctx, tablaClientes, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
