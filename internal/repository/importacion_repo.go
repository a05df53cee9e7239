package repository

import (
	"context"
	"fmt"

	"pelotazo/internal/infra"
	"pelotazo/internal/model"
)

type ImportacionRepository interface {
	Crear(ctx context.Context, importacion *model.Importacion) (*model.Importacion, error)
	Actualizar(ctx context.Context, id string, campos map[string]any) error
	Get(ctx context.Context, id string) (*model.Importacion, error)
}

type DevolucionRepository interface {
	Crear(ctx context.Context, devolucion *model.Devolucion) (*model.Devolucion, error)
}

type importacionRepository struct {
	store *infra.StoreClient
}

func NewImportacionRepository(store *infra.StoreClient) ImportacionRepository {
	return &importacionRepository{store: store}
}

func (r *importacionRepository) Crear(ctx context.Context, importacion *model.Importacion) (*model.Importacion, error) {
	var creada model.Importacion
	if err := r.store.Create(ctx, coleccionImportaciones, importacion, &creada); err != nil {
		return nil, fmt.Errorf("crear importacion: %w", err)
	}
	return &creada, nil
}

func (r *importacionRepository) Actualizar(ctx context.Context, id string, campos map[string]any) error {
	if err := r.store.Update(ctx, coleccionImportaciones, id, campos); err != nil {
		return fmt.Errorf("actualizar importacion %s: %w", id, err)
	}
	return nil
}

func (r *importacionRepository) Get(ctx context.Context, id string) (*model.Importacion, error) {
	var importacion model.Importacion
	if err := r.store.Get(ctx, coleccionImportaciones, id, &importacion); err != nil {
		return nil, fmt.Errorf("consultar importacion %s: %w", id, err)
	}
	return &importacion, nil
}

type devolucionRepository struct {
	store *infra.StoreClient
}

func NewDevolucionRepository(store *infra.StoreClient) DevolucionRepository {
	return &devolucionRepository{store: store}
}

func (r *devolucionRepository) Crear(ctx context.Context, devolucion *model.Devolucion) (*model.Devolucion, error) {
	var creada model.Devolucion
	if err := r.store.Create(ctx, coleccionDevoluciones, devolucion, &creada); err != nil {
		return nil, fmt.Errorf("crear devolucion %s: %w", devolucion.ProductoCodigo, err)
	}
	return &creada, nil
}
