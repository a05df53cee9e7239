// Package repository wraps the catalog store's collections behind typed
// accessors. All lookups run through filtered listings; the store enforces no
// uniqueness, so "find by" returns the first match.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"pelotazo/internal/infra"
	"pelotazo/internal/model"
)

// Catalog store collection names.
const (
	coleccionProductos     = "productos"
	coleccionCategorias    = "categorias"
	coleccionProveedores   = "proveedores"
	coleccionDevoluciones  = "devoluciones"
	coleccionImportaciones = "importaciones"
)

type ProductoRepository interface {
	// FindByCodigo returns nil without error when no product matches.
	FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error)
	Crear(ctx context.Context, producto *model.Producto) (*model.Producto, error)
	// Actualizar patches only the given fields on an existing record.
	Actualizar(ctx context.Context, id string, campos map[string]any) error
}

type productoRepository struct {
	store *infra.StoreClient
}

func NewProductoRepository(store *infra.StoreClient) ProductoRepository {
	return &productoRepository{store: store}
}

func (r *productoRepository) FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	filtro := fmt.Sprintf(`codigo = "%s"`, infra.EscapeFilterValue(codigo))
	res, err := r.store.List(ctx, coleccionProductos, filtro)
	if err != nil {
		return nil, fmt.Errorf("buscar producto %s: %w", codigo, err)
	}
	if len(res.Items) == 0 {
		return nil, nil
	}

	var producto model.Producto
	if err := json.Unmarshal(res.Items[0], &producto); err != nil {
		return nil, fmt.Errorf("decodificar producto %s: %w", codigo, err)
	}
	return &producto, nil
}

func (r *productoRepository) Crear(ctx context.Context, producto *model.Producto) (*model.Producto, error) {
	var creado model.Producto
	if err := r.store.Create(ctx, coleccionProductos, producto, &creado); err != nil {
		return nil, fmt.Errorf("crear producto %s: %w", producto.Codigo, err)
	}
	return &creado, nil
}

func (r *productoRepository) Actualizar(ctx context.Context, id string, campos map[string]any) error {
	if err := r.store.Update(ctx, coleccionProductos, id, campos); err != nil {
		return fmt.Errorf("actualizar producto %s: %w", id, err)
	}
	return nil
}
