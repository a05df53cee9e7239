package model

import "time"

// Categoria classifies products. Created lazily the first time an import
// references its name; never deleted by the pipeline.
type Categoria struct {
	ID            string    `json:"id,omitempty"`
	Nombre        string    `json:"nombre"`
	Descripcion   string    `json:"descripcion,omitempty"`
	Activo        bool      `json:"activo"`
	VisibleOnline bool      `json:"visible_online"`
	FechaAlta     time.Time `json:"fecha_alta"`
}
