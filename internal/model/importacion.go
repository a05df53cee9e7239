package model

import "time"

// Import kinds accepted by the pipeline. Anything but productos updates a
// single field on already-existing products.
const (
	TipoProductos = "productos"
	TipoPrecios   = "precios"
	TipoStock     = "stock"
)

// Import job states as persisted on the importaciones collection.
const (
	ImportacionPendiente  = "pendiente"
	ImportacionProcesando = "procesando"
	ImportacionCompletado = "completado"
	ImportacionConErrores = "completado_con_errores"
	ImportacionFallida    = "error"
)

// Importacion tracks one batch run end to end.
type Importacion struct {
	ID                string    `json:"id,omitempty"`
	Tipo              string    `json:"tipo"`
	NombreArchivo     string    `json:"nombre_archivo"`
	Proveedor         string    `json:"proveedor,omitempty"`
	Estado            string    `json:"estado"`
	Fecha             time.Time `json:"fecha"`
	TotalRegistros    int       `json:"total_registros"`
	RegistrosExitosos int       `json:"registros_exitosos"`
	RegistrosFallidos int       `json:"registros_fallidos"`
	Devoluciones      int       `json:"devoluciones"`
	ErroresDetalle    string    `json:"errores_detalle,omitempty"`
}

// ErrorDetalle describes one failed or partially-failed row.
type ErrorDetalle struct {
	Producto string   `json:"producto"`
	Campo    string   `json:"campo,omitempty"`
	Valor    string   `json:"valor,omitempty"`
	Errores  []string `json:"errores,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// ImportStats accumulates counters over a batch. Mutated only by the
// orchestrator, finalized exactly once at batch end.
type ImportStats struct {
	Total          int            `json:"total"`
	Creados        int            `json:"creados"`
	Actualizados   int            `json:"actualizados"`
	Errores        int            `json:"errores"`
	Devoluciones   int            `json:"devoluciones"`
	ErroresDetalle []ErrorDetalle `json:"errores_detalle"`
}

// AddDetalle appends a row descriptor without touching the counters; callers
// decide separately whether the row counts as failed.
func (s *ImportStats) AddDetalle(d ErrorDetalle) {
	s.ErroresDetalle = append(s.ErroresDetalle, d)
}
