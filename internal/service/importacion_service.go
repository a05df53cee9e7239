package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pelotazo/internal/model"
	"pelotazo/internal/notes"
	"pelotazo/internal/parser"
	"pelotazo/internal/reader"
	"pelotazo/internal/repository"
	"pelotazo/internal/validation"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ImportacionService drives one import batch end to end: read, parse,
// resolve, validate, upsert, mine notes, accumulate statistics.
type ImportacionService interface {
	Crear(ctx context.Context, tipo, nombreArchivo, proveedor string) (*model.Importacion, error)
	Get(ctx context.Context, id string) (*model.Importacion, error)
	Procesar(ctx context.Context, id, rutaArchivo, tipo, proveedor string) (*model.ImportStats, error)
}

type importacionService struct {
	productos     repository.ProductoRepository
	devoluciones  repository.DevolucionRepository
	importaciones repository.ImportacionRepository
	resolver      *Resolver
}

func NewImportacionService(
	productos repository.ProductoRepository,
	devoluciones repository.DevolucionRepository,
	importaciones repository.ImportacionRepository,
	resolver *Resolver,
) ImportacionService {
	return &importacionService{
		productos:     productos,
		devoluciones:  devoluciones,
		importaciones: importaciones,
		resolver:      resolver,
	}
}

func (s *importacionService) Crear(ctx context.Context, tipo, nombreArchivo, proveedor string) (*model.Importacion, error) {
	return s.importaciones.Crear(ctx, &model.Importacion{
		Tipo:          tipo,
		NombreArchivo: nombreArchivo,
		Proveedor:     proveedor,
		Estado:        model.ImportacionPendiente,
		Fecha:         time.Now(),
	})
}

func (s *importacionService) Get(ctx context.Context, id string) (*model.Importacion, error) {
	return s.importaciones.Get(ctx, id)
}

// Procesar runs the batch. One row's failure never aborts it: every error
// becomes a detail entry and processing moves on. The returned statistics are
// authoritative even when persisting them onto the job record fails.
func (s *importacionService) Procesar(ctx context.Context, id, rutaArchivo, tipo, proveedor string) (*model.ImportStats, error) {
	logger := log.With().Str("importacion", id).Str("tipo", tipo).Logger()

	s.marcarEstado(ctx, id, map[string]any{"estado": model.ImportacionProcesando})

	if proveedor == "" {
		proveedor = parser.DetectarProveedor(rutaArchivo)
	}
	proveedor = parser.Normalizar(proveedor)
	logger = logger.With().Str("proveedor", proveedor).Logger()

	filas, err := reader.Leer(rutaArchivo, 0)
	if err != nil {
		s.marcarEstado(ctx, id, map[string]any{"estado": model.ImportacionFallida})
		return nil, fmt.Errorf("leer archivo: %w", err)
	}

	resultado := parser.Get(proveedor)(filas, tipo)
	stats := &model.ImportStats{Total: len(resultado.Productos)}

	// Reference entities are resolved up front: categories from the parse
	// pass, the supplier once for the whole batch.
	for _, categoria := range resultado.Categorias {
		if _, err := s.resolver.ResolverCategoria(ctx, categoria); err != nil {
			logger.Warn().Err(err).Str("categoria", categoria).Msg("pre-resolucion de categoria fallida")
		}
	}
	proveedorID, err := s.resolver.ResolverProveedor(ctx, proveedor)
	if err != nil {
		logger.Warn().Err(err).Msg("resolucion de proveedor fallida")
	}

	for _, draft := range resultado.Productos {
		s.procesarFila(ctx, &logger, stats, draft, tipo, proveedorID, id)
	}

	s.finalizar(ctx, &logger, id, stats)
	logger.Info().
		Int("total", stats.Total).
		Int("creados", stats.Creados).
		Int("actualizados", stats.Actualizados).
		Int("errores", stats.Errores).
		Int("devoluciones", stats.Devoluciones).
		Msg("importacion finalizada")
	return stats, nil
}

func (s *importacionService) procesarFila(ctx context.Context, logger *zerolog.Logger, stats *model.ImportStats, draft model.ProductoDraft, tipo, proveedorID, importacionID string) {
	defer func() {
		if r := recover(); r != nil {
			stats.Errores++
			stats.AddDetalle(model.ErrorDetalle{
				Producto: draft.Codigo,
				Error:    fmt.Sprintf("panico procesando fila: %v", r),
			})
			logger.Error().Str("codigo", draft.Codigo).Interface("panico", r).Msg("fila abortada")
		}
	}()

	if tipo != model.TipoProductos {
		s.actualizarCampoUnico(ctx, logger, stats, draft, tipo)
		return
	}

	res := validation.ValidarProducto(draft)
	if res.Critico {
		stats.Errores++
		stats.AddDetalle(model.ErrorDetalle{
			Producto: draft.Codigo,
			Valor:    draft.Nombre,
			Errores:  res.Errores,
		})
		return
	}
	if !res.Valido {
		// Non-critical violations are informational: the corrected record
		// still gets persisted.
		stats.AddDetalle(model.ErrorDetalle{
			Producto: res.Producto.Codigo,
			Errores:  res.Errores,
		})
	}

	producto := res.Producto
	producto.Proveedor = proveedorID
	if draft.Categoria != "" {
		categoriaID, err := s.resolver.ResolverCategoria(ctx, draft.Categoria)
		if err != nil {
			stats.AddDetalle(model.ErrorDetalle{
				Producto: producto.Codigo,
				Campo:    "categoria",
				Valor:    draft.Categoria,
				Error:    err.Error(),
			})
		} else {
			producto.Categoria = categoriaID
		}
	}

	existente, err := s.productos.FindByCodigo(ctx, producto.Codigo)
	if err != nil {
		stats.Errores++
		stats.AddDetalle(model.ErrorDetalle{Producto: producto.Codigo, Error: err.Error()})
		return
	}

	if existente != nil {
		if err := s.productos.Actualizar(ctx, existente.ID, camposActualizacion(producto)); err != nil {
			stats.Errores++
			stats.AddDetalle(model.ErrorDetalle{Producto: producto.Codigo, Error: err.Error()})
			return
		}
		stats.Actualizados++
	} else {
		producto.FechaAlta = time.Now()
		if _, err := s.productos.Crear(ctx, &producto); err != nil {
			stats.Errores++
			stats.AddDetalle(model.ErrorDetalle{Producto: producto.Codigo, Error: err.Error()})
			return
		}
		stats.Creados++
	}

	s.minarNotas(ctx, logger, stats, producto, importacionID)
}

// actualizarCampoUnico handles the price-only and stock-only kinds: a single
// field patched onto products that already exist, never a create.
func (s *importacionService) actualizarCampoUnico(ctx context.Context, logger *zerolog.Logger, stats *model.ImportStats, draft model.ProductoDraft, tipo string) {
	existente, err := s.productos.FindByCodigo(ctx, draft.Codigo)
	if err != nil {
		stats.Errores++
		stats.AddDetalle(model.ErrorDetalle{Producto: draft.Codigo, Error: err.Error()})
		return
	}
	if existente == nil {
		stats.Errores++
		stats.AddDetalle(model.ErrorDetalle{
			Producto: draft.Codigo,
			Error:    "producto inexistente, solo las importaciones de productos crean registros",
		})
		return
	}

	var campos map[string]any
	switch tipo {
	case model.TipoPrecios:
		campos = map[string]any{"precio_venta": draft.PrecioVenta}
	case model.TipoStock:
		campos = map[string]any{"stock_actual": draft.StockActual}
	default:
		stats.Errores++
		stats.AddDetalle(model.ErrorDetalle{Producto: draft.Codigo, Campo: "tipo", Valor: tipo, Error: "tipo de importacion desconocido"})
		return
	}

	if err := s.productos.Actualizar(ctx, existente.ID, campos); err != nil {
		stats.Errores++
		stats.AddDetalle(model.ErrorDetalle{Producto: draft.Codigo, Error: err.Error()})
		return
	}
	stats.Actualizados++
	logger.Debug().Str("codigo", draft.Codigo).Msg("campo actualizado")
}

func (s *importacionService) minarNotas(ctx context.Context, logger *zerolog.Logger, stats *model.ImportStats, producto model.Producto, importacionID string) {
	abono := notes.Analizar(producto.Notas)
	if abono == nil || !abono.EsAbono {
		return
	}

	devolucion := &model.Devolucion{
		Fecha:          time.Now(),
		FechaAbono:     abono.FechaAbono,
		ProductoCodigo: producto.Codigo,
		ProductoNombre: producto.Nombre,
		Motivo:         abono.Motivo,
		Responsable:    abono.Responsable,
		Estado:         "pendiente",
		Proveedor:      producto.NombreProveedor,
		Importacion:    importacionID,
		Notas:          producto.Notas,
	}
	if _, err := s.devoluciones.Crear(ctx, devolucion); err != nil {
		stats.AddDetalle(model.ErrorDetalle{
			Producto: producto.Codigo,
			Campo:    "devolucion",
			Error:    err.Error(),
		})
		logger.Warn().Err(err).Str("codigo", producto.Codigo).Msg("registro de devolucion fallido")
		return
	}
	stats.Devoluciones++
}

// camposActualizacion builds the patch for an existing product. Relation
// fields enter the patch only when the draft resolved a replacement, so the
// stored values survive otherwise.
func camposActualizacion(p model.Producto) map[string]any {
	campos := map[string]any{
		"nombre":             p.Nombre,
		"descripcion":        p.Descripcion,
		"precio_venta":       p.PrecioVenta,
		"precio_compra":      p.PrecioCompra,
		"iva":                p.IVA,
		"descuento":          p.Descuento,
		"stock_actual":       p.StockActual,
		"stock_minimo":       p.StockMinimo,
		"beneficio_unitario": p.BeneficioUnitario,
		"margen":             p.Margen,
		"beneficio_total":    p.BeneficioTotal,
		"datos_origen":       p.DatosOrigen,
	}
	if p.CodigoBarras != "" {
		campos["codigo_barras"] = p.CodigoBarras
	}
	if p.Marca != "" {
		campos["marca"] = p.Marca
	}
	if p.Notas != "" {
		campos["notas"] = p.Notas
	}
	if p.Categoria != "" {
		campos["categoria"] = p.Categoria
	}
	if p.Proveedor != "" {
		campos["proveedor"] = p.Proveedor
	}
	if p.NombreProveedor != "" {
		campos["nombre_proveedor"] = p.NombreProveedor
	}
	return campos
}

func (s *importacionService) finalizar(ctx context.Context, logger *zerolog.Logger, id string, stats *model.ImportStats) {
	estado := model.ImportacionCompletado
	if stats.Errores > 0 {
		estado = model.ImportacionConErrores
	}

	campos := map[string]any{
		"estado":             estado,
		"total_registros":    stats.Total,
		"registros_exitosos": stats.Creados + stats.Actualizados,
		"registros_fallidos": stats.Errores,
		"devoluciones":       stats.Devoluciones,
	}
	if len(stats.ErroresDetalle) > 0 {
		if detalle, err := json.Marshal(stats.ErroresDetalle); err == nil {
			campos["errores_detalle"] = string(detalle)
		}
	}

	if err := s.importaciones.Actualizar(ctx, id, campos); err != nil {
		logger.Error().Err(err).Msg("persistencia de estadisticas fallida")
	}
}

func (s *importacionService) marcarEstado(ctx context.Context, id string, campos map[string]any) {
	if err := s.importaciones.Actualizar(ctx, id, campos); err != nil {
		log.Warn().Err(err).Str("importacion", id).Msg("actualizacion de estado fallida")
	}
}
