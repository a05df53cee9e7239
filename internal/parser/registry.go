// Package parser turns raw supplier rows into canonical product drafts.
// One parser per supplier plus a generic fallback; all of them share the
// column-alias engine in generic.go.
package parser

import (
	"strings"

	"pelotazo/internal/model"
	"pelotazo/internal/reader"
)

// Resultado is what every parser hands to the orchestrator: the drafts plus
// the category names detected along the way (header rows, category columns).
type Resultado struct {
	Productos  []model.ProductoDraft
	Categorias []string
}

// Func parses raw rows for one import kind.
type Func func(filas []reader.Fila, tipo string) *Resultado

// proveedoresNormalizados folds the spellings that show up in real tarifas
// ("PVP CECOTEC", the OBREGOZO typo) onto canonical supplier names.
var proveedoresNormalizados = map[string]string{
	"CECO":            "CECOTEC",
	"OBREGOZO":        "ORBEGOZO",
	"EAS":             "EAS-JOHNSON",
	"JOHNSON":         "EAS-JOHNSON",
	"EAS JOHNSON":     "EAS-JOHNSON",
	"BECKEN-TEGALUXE": "BECKEN",
}

// Normalizar maps a raw supplier spelling onto its canonical name.
func Normalizar(proveedor string) string {
	p := strings.ToUpper(strings.TrimSpace(proveedor))
	p = strings.TrimPrefix(p, "PVP ")
	if canonico, ok := proveedoresNormalizados[p]; ok {
		return canonico
	}
	return p
}

// registro maps canonical supplier names to their parser configuration.
// Suppliers not listed here fall through to the generic parser.
var registro = map[string]Config{
	"ALMCE": {
		Proveedor:     "ALMCE",
		SoloProductos: true,
		Columnas: map[string]string{
			campoCodigo: "REFERENCIA", campoNombre: "DESCRIPCION",
			campoPrecioCompra: "COSTE", campoPrecioVenta: "PVP",
			campoStock: "STOCK", campoMarca: "MARCA",
		},
	},
	"JATA": {
		Proveedor:     "JATA",
		MarcaForzada:  "JATA",
		SoloProductos: true,
		Columnas: map[string]string{
			campoCodigo: "REFERENCIA", campoNombre: "DESCRIPCION",
			campoPrecioCompra: "COSTE", campoPrecioVenta: "PVP",
			campoStock: "STOCK",
		},
	},
	"UFESA": {
		Proveedor:     "UFESA",
		MarcaForzada:  "UFESA",
		SoloProductos: true,
		Columnas: map[string]string{
			campoCodigo: "REFERENCIA", campoNombre: "DESCRIPCION",
			campoPrecioCompra: "PRECIO COMPRA", campoPrecioVenta: "PVP",
			campoStock: "STOCK",
		},
	},
	"CECOTEC":        {Proveedor: "CECOTEC", MarcaForzada: "CECOTEC", SoloProductos: true},
	"BSH":            {Proveedor: "BSH", SoloProductos: true},
	"BOSCH":          {Proveedor: "BSH", MarcaForzada: "BOSCH", SoloProductos: true},
	"SIEMENS":        {Proveedor: "BSH", MarcaForzada: "SIEMENS", SoloProductos: true},
	"NEFF":           {Proveedor: "BSH", MarcaForzada: "NEFF", SoloProductos: true},
	"BALAY":          {Proveedor: "BSH", MarcaForzada: "BALAY", SoloProductos: true},
	"ORBEGOZO":       {Proveedor: "ORBEGOZO", MarcaForzada: "ORBEGOZO", SoloProductos: true},
	"BECKEN":         {Proveedor: "BECKEN", MarcaForzada: "BECKEN"},
	"TEGALUXE":       {Proveedor: "TEGALUXE", MarcaForzada: "TEGALUXE"},
	"ABRILA":         {Proveedor: "ABRILA"},
	"AGUACONFORT":    {Proveedor: "AGUACONFORT"},
	"EAS-JOHNSON":    {Proveedor: "EAS-JOHNSON"},
	"MIELECTRO":      {Proveedor: "MIELECTRO"},
	"NEVIR":          {Proveedor: "NEVIR", MarcaForzada: "NEVIR"},
	"AIRPAL":         {Proveedor: "AIRPAL"},
	"ALFADYSER":      {Proveedor: "ALFADYSER"},
	"VITROKITCHEN":   {Proveedor: "VITROKITCHEN"},
	"ELECTRODIRECTO": {Proveedor: "ELECTRODIRECTO"},
}

// Get returns the parser for a supplier, falling back to the generic one for
// anything unknown.
func Get(proveedor string) Func {
	canonico := Normalizar(proveedor)
	cfg, ok := registro[canonico]
	if !ok {
		cfg = Config{Proveedor: canonico}
		if canonico == "" {
			cfg.Proveedor = Generico
		}
	}
	return cfg.parse
}
