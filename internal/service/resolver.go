// Package service holds the import pipeline's business logic.
package service

import (
	"context"
	"sync"

	"pelotazo/internal/repository"
	"pelotazo/internal/validation"

	"github.com/rs/zerolog/log"
)

// Resolver get-or-creates categories and suppliers by normalized name. A
// per-name mutex serializes concurrent resolutions of the same unseen name so
// parallel import jobs cannot create duplicate reference entities, and a
// name to id cache short-circuits repeats within and across batches.
type Resolver struct {
	categorias  repository.CategoriaRepository
	proveedores repository.ProveedorRepository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	ids   map[string]string
}

func NewResolver(categorias repository.CategoriaRepository, proveedores repository.ProveedorRepository) *Resolver {
	return &Resolver{
		categorias:  categorias,
		proveedores: proveedores,
		locks:       map[string]*sync.Mutex{},
		ids:         map[string]string{},
	}
}

// ResolverCategoria returns the record id for a category name, creating the
// category when unseen. Blank names resolve to the empty id, not an error.
func (r *Resolver) ResolverCategoria(ctx context.Context, nombre string) (string, error) {
	nombre = validation.NormalizarCategoria(nombre)
	if nombre == "" {
		return "", nil
	}
	return r.resolver(ctx, "categoria:"+nombre, func() (string, error) {
		existente, err := r.categorias.FindByNombre(ctx, nombre)
		if err != nil {
			return "", err
		}
		if existente != nil {
			return existente.ID, nil
		}
		creada, err := r.categorias.Crear(ctx, nombre)
		if err != nil {
			return "", err
		}
		log.Info().Str("categoria", nombre).Str("id", creada.ID).Msg("categoria creada")
		return creada.ID, nil
	})
}

// ResolverProveedor returns the record id for a supplier name, creating the
// supplier when unseen.
func (r *Resolver) ResolverProveedor(ctx context.Context, nombre string) (string, error) {
	nombre = validation.NormalizarProveedor(nombre)
	if nombre == "" {
		return "", nil
	}
	return r.resolver(ctx, "proveedor:"+nombre, func() (string, error) {
		existente, err := r.proveedores.FindByNombre(ctx, nombre)
		if err != nil {
			return "", err
		}
		if existente != nil {
			return existente.ID, nil
		}
		creado, err := r.proveedores.Crear(ctx, nombre)
		if err != nil {
			return "", err
		}
		log.Info().Str("proveedor", nombre).Str("id", creado.ID).Msg("proveedor creado")
		return creado.ID, nil
	})
}

func (r *Resolver) resolver(_ context.Context, clave string, buscar func() (string, error)) (string, error) {
	candado := r.candado(clave)
	candado.Lock()
	defer candado.Unlock()

	r.mu.Lock()
	id, ok := r.ids[clave]
	r.mu.Unlock()
	if ok {
		return id, nil
	}

	id, err := buscar()
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.ids[clave] = id
	r.mu.Unlock()
	return id, nil
}

func (r *Resolver) candado(clave string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	candado, ok := r.locks[clave]
	if !ok {
		candado = &sync.Mutex{}
		r.locks[clave] = candado
	}
	return candado
}
