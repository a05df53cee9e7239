package model

import "time"

// Proveedor is a supplier reference entity, unique by upper-cased nombre.
type Proveedor struct {
	ID        string    `json:"id,omitempty"`
	Nombre    string    `json:"nombre"`
	Telefono  string    `json:"telefono,omitempty"`
	Email     string    `json:"email,omitempty"`
	Activo    bool      `json:"activo"`
	FechaAlta time.Time `json:"fecha_alta"`
}
