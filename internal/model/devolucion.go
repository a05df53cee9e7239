package model

import "time"

// Devolucion records a refund signal mined from a product's free-text notes.
// Created once per positive classification, never updated by the pipeline.
type Devolucion struct {
	ID             string    `json:"id,omitempty"`
	Fecha          time.Time `json:"fecha"`
	FechaAbono     string    `json:"fecha_abono,omitempty"`
	ProductoCodigo string    `json:"producto_codigo"`
	ProductoNombre string    `json:"producto_nombre"`
	Motivo         string    `json:"motivo"`
	Responsable    string    `json:"responsable"`
	Estado         string    `json:"estado"`
	Proveedor      string    `json:"proveedor,omitempty"`
	Importacion    string    `json:"importacion,omitempty"`
	Notas          string    `json:"notas,omitempty"`
}
