package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"pelotazo/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCategoriaRepo struct {
	mu        sync.Mutex
	porNombre map[string]*model.Categoria
	busquedas int
	creadas   int
	fallar    error
	// fallarNombre narrows fallar down to a single category name.
	fallarNombre string
}

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{porNombre: map[string]*model.Categoria{}}
}

func (s *stubCategoriaRepo) FindByNombre(_ context.Context, nombre string) (*model.Categoria, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fallar != nil && (s.fallarNombre == "" || s.fallarNombre == nombre) {
		return nil, s.fallar
	}
	s.busquedas++
	return s.porNombre[nombre], nil
}

func (s *stubCategoriaRepo) Crear(_ context.Context, nombre string) (*model.Categoria, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creadas++
	c := &model.Categoria{ID: fmt.Sprintf("cat_%d", s.creadas), Nombre: nombre, Activo: true}
	s.porNombre[nombre] = c
	return c, nil
}

type stubProveedorRepo struct {
	mu        sync.Mutex
	porNombre map[string]*model.Proveedor
	creados   int
}

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{porNombre: map[string]*model.Proveedor{}}
}

func (s *stubProveedorRepo) FindByNombre(_ context.Context, nombre string) (*model.Proveedor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.porNombre[nombre], nil
}

func (s *stubProveedorRepo) Crear(_ context.Context, nombre string) (*model.Proveedor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creados++
	p := &model.Proveedor{ID: fmt.Sprintf("prov_%d", s.creados), Nombre: nombre, Activo: true}
	s.porNombre[nombre] = p
	return p, nil
}

func TestResolverCategoriaGetOrCreate(t *testing.T) {
	categorias := newStubCategoriaRepo()
	r := NewResolver(categorias, newStubProveedorRepo())

	id, err := r.ResolverCategoria(context.Background(), "lavadoras")
	require.NoError(t, err)
	assert.Equal(t, "cat_1", id)
	assert.Equal(t, 1, categorias.creadas)

	// Same normalized name resolves from cache, no second store roundtrip.
	id2, err := r.ResolverCategoria(context.Background(), "  lavadoras ")
	require.NoError(t, err)
	assert.Equal(t, id, id2)
	assert.Equal(t, 1, categorias.busquedas)
	assert.Equal(t, 1, categorias.creadas)
}

func TestResolverCategoriaExistente(t *testing.T) {
	categorias := newStubCategoriaRepo()
	categorias.porNombre["Hornos"] = &model.Categoria{ID: "cat_99", Nombre: "Hornos"}
	r := NewResolver(categorias, newStubProveedorRepo())

	id, err := r.ResolverCategoria(context.Background(), "hornos")
	require.NoError(t, err)
	assert.Equal(t, "cat_99", id)
	assert.Zero(t, categorias.creadas)
}

func TestResolverNombreVacio(t *testing.T) {
	r := NewResolver(newStubCategoriaRepo(), newStubProveedorRepo())

	id, err := r.ResolverCategoria(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, id)

	id, err = r.ResolverProveedor(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestResolverProveedorNormalizaMayusculas(t *testing.T) {
	proveedores := newStubProveedorRepo()
	r := NewResolver(newStubCategoriaRepo(), proveedores)

	id, err := r.ResolverProveedor(context.Background(), " jata ")
	require.NoError(t, err)
	assert.Equal(t, "prov_1", id)
	assert.Equal(t, "JATA", proveedores.porNombre["JATA"].Nombre)
}

func TestResolverConcurrenteNoDuplica(t *testing.T) {
	categorias := newStubCategoriaRepo()
	r := NewResolver(categorias, newStubProveedorRepo())

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := r.ResolverCategoria(context.Background(), "Frigoríficos")
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, categorias.creadas)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestResolverPropagaErrorDeBusqueda(t *testing.T) {
	categorias := newStubCategoriaRepo()
	categorias.fallar = fmt.Errorf("store caido")
	r := NewResolver(categorias, newStubProveedorRepo())

	_, err := r.ResolverCategoria(context.Background(), "Hornos")
	assert.ErrorContains(t, err, "store caido")
}
