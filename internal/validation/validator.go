// Package validation normalizes product drafts before persistence. Every
// rule runs; violations accumulate instead of short-circuiting, and only the
// critical ones (missing business key or name) make a row unpersistable.
package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"pelotazo/internal/model"

	"github.com/shopspring/decimal"
)

// IVA buckets accepted by the catalog. Off-bucket values round upward to the
// next threshold.
var (
	ivaCero       = decimal.Zero
	ivaReducido   = decimal.NewFromInt(4)
	ivaIntermedio = decimal.NewFromInt(10)
	ivaGeneral    = decimal.NewFromInt(21)
)

var (
	descuentoMax     = decimal.NewFromInt(100)
	margenSospechoso = decimal.NewFromInt(500)
	cien             = decimal.NewFromInt(100)
)

// Resultado carries the outcome of validating one draft. Producto is always
// populated with the normalized values; Critico marks the rows that must be
// discarded instead of persisted.
type Resultado struct {
	Valido   bool
	Critico  bool
	Errores  []string
	Producto model.Producto
}

// ValidarProducto checks and normalizes a draft into a persistable record.
func ValidarProducto(draft model.ProductoDraft) Resultado {
	res := Resultado{}
	fallo := func(formato string, args ...any) {
		res.Errores = append(res.Errores, fmt.Sprintf(formato, args...))
	}

	codigo := strings.TrimSpace(draft.Codigo)
	nombre := strings.TrimSpace(draft.Nombre)
	if codigo == "" {
		res.Critico = true
		fallo("codigo es obligatorio")
	}
	if nombre == "" {
		res.Critico = true
		fallo("nombre es obligatorio")
	}

	precioVenta := draft.PrecioVenta
	if precioVenta.IsNegative() {
		fallo("precio_venta negativo: %s", precioVenta)
		precioVenta = decimal.Zero
	}
	precioCompra := draft.PrecioCompra
	if precioCompra.IsNegative() {
		fallo("precio_compra negativo: %s", precioCompra)
		precioCompra = decimal.Zero
	}

	stockActual := draft.StockActual
	if stockActual < 0 {
		fallo("stock_actual negativo: %d", stockActual)
		stockActual = 0
	}
	stockMinimo := draft.StockMinimo
	if stockMinimo < 0 {
		fallo("stock_minimo negativo: %d", stockMinimo)
		stockMinimo = 0
	}

	iva := normalizarIVA(draft.IVA, fallo)
	descuento := normalizarDescuento(draft.Descuento, fallo)
	codigoBarras := normalizarCodigoBarras(draft.CodigoBarras, fallo)

	producto := model.Producto{
		Codigo:          codigo,
		Nombre:          nombre,
		Descripcion:     strings.TrimSpace(draft.Descripcion),
		PrecioVenta:     precioVenta,
		PrecioCompra:    precioCompra,
		IVA:             iva,
		Descuento:       descuento,
		StockActual:     stockActual,
		StockMinimo:     stockMinimo,
		CodigoBarras:    codigoBarras,
		Marca:           strings.TrimSpace(draft.Marca),
		Notas:           strings.TrimSpace(draft.Notas),
		NombreProveedor: NormalizarProveedor(draft.NombreProveedor),
		Activo:          true,
		VisibleOnline:   true,
		Reservable:      true,
		AlertaStockBajo: true,
		DatosOrigen:     draft.DatosOrigen,
	}
	if producto.Descripcion == "" {
		producto.Descripcion = nombre
	}

	// Derived fields only make sense with both prices on the row.
	if precioVenta.IsPositive() && precioCompra.IsPositive() {
		beneficio := precioVenta.Sub(precioCompra)
		margen := beneficio.Div(precioCompra).Mul(cien)

		if precioCompra.GreaterThan(precioVenta) {
			fallo("precio_compra %s supera precio_venta %s", precioCompra, precioVenta)
		}
		if margen.IsNegative() {
			fallo("margen negativo: %s%%", margen.Round(2))
		} else if margen.GreaterThan(margenSospechoso) {
			fallo("margen sospechoso: %s%%", margen.Round(2))
		}

		producto.BeneficioUnitario = beneficio.Round(2)
		producto.Margen = margen.Round(2)
		if stockActual > 0 {
			producto.BeneficioTotal = beneficio.Mul(decimal.NewFromInt(int64(stockActual))).Round(2)
		}
	}

	res.Valido = len(res.Errores) == 0
	res.Producto = producto
	return res
}

func normalizarIVA(iva *decimal.Decimal, fallo func(string, ...any)) int {
	if iva == nil {
		return 21
	}
	var bucket decimal.Decimal
	switch {
	case iva.LessThanOrEqual(ivaCero):
		bucket = ivaCero
	case iva.LessThanOrEqual(ivaReducido):
		bucket = ivaReducido
	case iva.LessThanOrEqual(ivaIntermedio):
		bucket = ivaIntermedio
	default:
		bucket = ivaGeneral
	}
	if !iva.Equal(bucket) {
		fallo("iva %s fuera de tramo, normalizado a %s", iva, bucket)
	}
	return int(bucket.IntPart())
}

func normalizarDescuento(descuento *decimal.Decimal, fallo func(string, ...any)) decimal.Decimal {
	if descuento == nil {
		return decimal.Zero
	}
	switch {
	case descuento.IsNegative():
		fallo("descuento %s fuera de rango [0,100]", descuento)
		return decimal.Zero
	case descuento.GreaterThan(descuentoMax):
		fallo("descuento %s fuera de rango [0,100]", descuento)
		return descuentoMax
	}
	return *descuento
}

func normalizarCodigoBarras(v string, fallo func(string, ...any)) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	digitos := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, v)
	if len(digitos) != 8 && len(digitos) != 13 {
		fallo("codigo_barras invalido: %q", v)
		return ""
	}
	return digitos
}

// NormalizarCategoria trims and capitalizes a category name for get-or-create
// resolution. Blank input stays blank.
func NormalizarCategoria(nombre string) string {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(nombre)
	return string(unicode.ToUpper(r)) + nombre[size:]
}

// NormalizarProveedor trims and upper-cases a supplier name.
func NormalizarProveedor(nombre string) string {
	return strings.ToUpper(strings.TrimSpace(nombre))
}
