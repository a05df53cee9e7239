package parser

import (
	"path/filepath"
	"strings"

	"pelotazo/internal/reader"

	"github.com/rs/zerolog/log"
)

// Generico is the sentinel returned when no known supplier matches; it maps
// to the generic fallback parser.
const Generico = "GENERICO"

// proveedoresConocidos are the supplier tokens probed during detection, most
// specific first so that e.g. "EAS-JOHNSON" wins over "EAS".
var proveedoresConocidos = []string{
	"CECOTEC", "BSH", "JATA", "ORBEGOZO", "ALFADYSER", "VITROKITCHEN",
	"ELECTRODIRECTO", "ALMCE", "ABRILA", "AGUACONFORT", "AIRPAL",
	"BECKEN", "TEGALUXE", "EAS-JOHNSON", "MIELECTRO", "NEVIR", "UFESA",
}

// filasSondeo limits how much of a file the content scan reads.
const filasSondeo = 10

// DetectarProveedor guesses which supplier produced a file: first from its
// base name, then from a short prefix of its content. Best effort: it never
// fails, worst case the batch runs through the generic parser.
func DetectarProveedor(path string) string {
	nombre := strings.ToUpper(filepath.Base(path))
	for _, p := range proveedoresConocidos {
		if strings.Contains(nombre, p) {
			return p
		}
	}

	filas, err := reader.Leer(path, filasSondeo)
	if err != nil {
		log.Warn().Err(err).Str("archivo", path).Msg("sondeo de proveedor fallido")
		return Generico
	}
	for _, fila := range filas {
		for col, valor := range fila {
			colUpper := strings.ToUpper(col)
			valorUpper := strings.ToUpper(valor)
			for _, p := range proveedoresConocidos {
				if strings.Contains(colUpper, p) || strings.Contains(valorUpper, p) {
					return p
				}
			}
		}
	}

	log.Debug().Str("archivo", path).Msg("proveedor no detectado, usando parser generico")
	return Generico
}
