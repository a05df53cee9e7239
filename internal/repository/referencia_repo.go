package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pelotazo/internal/infra"
	"pelotazo/internal/model"
)

// CategoriaRepository and ProveedorRepository back the get-or-create
// resolution of reference entities.
type CategoriaRepository interface {
	FindByNombre(ctx context.Context, nombre string) (*model.Categoria, error)
	Crear(ctx context.Context, nombre string) (*model.Categoria, error)
}

type ProveedorRepository interface {
	FindByNombre(ctx context.Context, nombre string) (*model.Proveedor, error)
	Crear(ctx context.Context, nombre string) (*model.Proveedor, error)
}

type categoriaRepository struct {
	store *infra.StoreClient
}

func NewCategoriaRepository(store *infra.StoreClient) CategoriaRepository {
	return &categoriaRepository{store: store}
}

func (r *categoriaRepository) FindByNombre(ctx context.Context, nombre string) (*model.Categoria, error) {
	filtro := fmt.Sprintf(`nombre = "%s"`, infra.EscapeFilterValue(nombre))
	res, err := r.store.List(ctx, coleccionCategorias, filtro)
	if err != nil {
		return nil, fmt.Errorf("buscar categoria %s: %w", nombre, err)
	}
	if len(res.Items) == 0 {
		return nil, nil
	}

	var categoria model.Categoria
	if err := json.Unmarshal(res.Items[0], &categoria); err != nil {
		return nil, fmt.Errorf("decodificar categoria %s: %w", nombre, err)
	}
	return &categoria, nil
}

func (r *categoriaRepository) Crear(ctx context.Context, nombre string) (*model.Categoria, error) {
	nueva := model.Categoria{
		Nombre:        nombre,
		Activo:        true,
		VisibleOnline: true,
		FechaAlta:     time.Now(),
	}
	var creada model.Categoria
	if err := r.store.Create(ctx, coleccionCategorias, nueva, &creada); err != nil {
		return nil, fmt.Errorf("crear categoria %s: %w", nombre, err)
	}
	return &creada, nil
}

type proveedorRepository struct {
	store *infra.StoreClient
}

func NewProveedorRepository(store *infra.StoreClient) ProveedorRepository {
	return &proveedorRepository{store: store}
}

func (r *proveedorRepository) FindByNombre(ctx context.Context, nombre string) (*model.Proveedor, error) {
	filtro := fmt.Sprintf(`nombre = "%s"`, infra.EscapeFilterValue(nombre))
	res, err := r.store.List(ctx, coleccionProveedores, filtro)
	if err != nil {
		return nil, fmt.Errorf("buscar proveedor %s: %w", nombre, err)
	}
	if len(res.Items) == 0 {
		return nil, nil
	}

	var proveedor model.Proveedor
	if err := json.Unmarshal(res.Items[0], &proveedor); err != nil {
		return nil, fmt.Errorf("decodificar proveedor %s: %w", nombre, err)
	}
	return &proveedor, nil
}

func (r *proveedorRepository) Crear(ctx context.Context, nombre string) (*model.Proveedor, error) {
	nuevo := model.Proveedor{
		Nombre:    nombre,
		Activo:    true,
		FechaAlta: time.Now(),
	}
	var creado model.Proveedor
	if err := r.store.Create(ctx, coleccionProveedores, nuevo, &creado); err != nil {
		return nil, fmt.Errorf("crear proveedor %s: %w", nombre, err)
	}
	return &creado, nil
}
