package validation

import (
	"testing"

	"pelotazo/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftBase() model.ProductoDraft {
	return model.ProductoDraft{
		Codigo:          "P-100",
		Nombre:          "Lavadora carga frontal",
		PrecioVenta:     decimal.NewFromInt(400),
		PrecioCompra:    decimal.NewFromInt(300),
		StockActual:     3,
		NombreProveedor: "cecotec",
	}
}

func TestValidarProductoCompleto(t *testing.T) {
	res := ValidarProducto(draftBase())

	assert.True(t, res.Valido)
	assert.False(t, res.Critico)
	assert.Empty(t, res.Errores)

	p := res.Producto
	assert.Equal(t, "P-100", p.Codigo)
	assert.Equal(t, 21, p.IVA, "iva ausente por defecto al tramo general")
	assert.Equal(t, "CECOTEC", p.NombreProveedor)
	assert.True(t, p.Activo)
	assert.True(t, p.VisibleOnline)
	assert.True(t, p.Reservable)
	assert.True(t, p.AlertaStockBajo)
	assert.True(t, p.BeneficioUnitario.Equal(decimal.NewFromInt(100)))
	assert.True(t, p.Margen.Equal(decimal.RequireFromString("33.33")))
	assert.True(t, p.BeneficioTotal.Equal(decimal.NewFromInt(300)))
}

func TestValidarProductoCriticoSinCodigo(t *testing.T) {
	d := draftBase()
	d.Codigo = "   "
	res := ValidarProducto(d)

	assert.False(t, res.Valido)
	assert.True(t, res.Critico)
	assert.Contains(t, res.Errores, "codigo es obligatorio")
}

func TestValidarProductoCriticoSinNombre(t *testing.T) {
	d := draftBase()
	d.Nombre = ""
	res := ValidarProducto(d)

	assert.True(t, res.Critico)
	require.Len(t, res.Errores, 1)
}

func TestValidarProductoEvaluaTodasLasReglas(t *testing.T) {
	dto := decimal.NewFromInt(150)
	d := draftBase()
	d.Codigo = ""
	d.PrecioVenta = decimal.NewFromInt(-10)
	d.Descuento = &dto
	d.CodigoBarras = "12345"
	res := ValidarProducto(d)

	assert.True(t, res.Critico)
	// Critical and non-critical violations are all reported together.
	assert.Len(t, res.Errores, 4)
	assert.True(t, res.Producto.PrecioVenta.IsZero())
	assert.True(t, res.Producto.Descuento.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, res.Producto.CodigoBarras)
}

func TestValidarProductoTramosIVA(t *testing.T) {
	casos := []struct {
		iva      string
		esperado int
	}{
		{"-3", 0},
		{"0", 0},
		{"2", 4},
		{"4", 4},
		{"7", 10},
		{"10", 10},
		{"16", 21},
		{"21", 21},
		{"99", 21},
	}
	for _, c := range casos {
		iva := decimal.RequireFromString(c.iva)
		d := draftBase()
		d.IVA = &iva
		res := ValidarProducto(d)
		assert.Equal(t, c.esperado, res.Producto.IVA, "iva %s", c.iva)
	}
}

func TestValidarProductoIVAFueraDeTramoNoEsValido(t *testing.T) {
	iva := decimal.NewFromInt(7)
	d := draftBase()
	d.IVA = &iva
	res := ValidarProducto(d)

	assert.False(t, res.Valido)
	assert.False(t, res.Critico, "tramo de iva corregido no descarta la fila")
	assert.Equal(t, 10, res.Producto.IVA)
}

func TestValidarProductoDescuentoClamp(t *testing.T) {
	negativo := decimal.NewFromInt(-5)
	d := draftBase()
	d.Descuento = &negativo
	res := ValidarProducto(d)
	assert.True(t, res.Producto.Descuento.IsZero())
	assert.False(t, res.Valido)

	valido := decimal.NewFromInt(15)
	d = draftBase()
	d.Descuento = &valido
	res = ValidarProducto(d)
	assert.True(t, res.Producto.Descuento.Equal(valido))
	assert.True(t, res.Valido)
}

func TestValidarProductoMargenes(t *testing.T) {
	d := draftBase()
	d.PrecioVenta = decimal.NewFromInt(200)
	d.PrecioCompra = decimal.NewFromInt(300)
	res := ValidarProducto(d)
	assert.False(t, res.Valido)
	assert.False(t, res.Critico)
	// Price inversion reports both the inversion and the negative margin.
	assert.Len(t, res.Errores, 2)
	assert.True(t, res.Producto.Margen.Equal(decimal.RequireFromString("-33.33")))

	d = draftBase()
	d.PrecioVenta = decimal.NewFromInt(700)
	d.PrecioCompra = decimal.NewFromInt(100)
	res = ValidarProducto(d)
	assert.False(t, res.Valido)
	assert.True(t, res.Producto.Margen.Equal(decimal.NewFromInt(600)))
}

func TestValidarProductoCodigoBarras(t *testing.T) {
	d := draftBase()
	d.CodigoBarras = "8412345678905"
	res := ValidarProducto(d)
	assert.Equal(t, "8412345678905", res.Producto.CodigoBarras)
	assert.True(t, res.Valido)

	d.CodigoBarras = "84-12345.678905"
	res = ValidarProducto(d)
	assert.Equal(t, "8412345678905", res.Producto.CodigoBarras, "se descartan los no-digitos")

	d.CodigoBarras = "1234"
	res = ValidarProducto(d)
	assert.Empty(t, res.Producto.CodigoBarras)
	assert.False(t, res.Valido)
}

func TestValidarProductoSinPreciosNoDeriva(t *testing.T) {
	d := draftBase()
	d.PrecioCompra = decimal.Zero
	res := ValidarProducto(d)
	assert.True(t, res.Producto.BeneficioUnitario.IsZero())
	assert.True(t, res.Producto.Margen.IsZero())
	assert.True(t, res.Producto.BeneficioTotal.IsZero())
}

func TestNormalizarCategoria(t *testing.T) {
	assert.Equal(t, "Lavadoras", NormalizarCategoria("lavadoras"))
	assert.Equal(t, "LAVADORAS", NormalizarCategoria(" LAVADORAS "))
	assert.Equal(t, "Ñoquis", NormalizarCategoria("ñoquis"))
	assert.Equal(t, "", NormalizarCategoria("   "))
}

func TestNormalizarProveedor(t *testing.T) {
	assert.Equal(t, "JATA", NormalizarProveedor(" jata "))
	assert.Equal(t, "", NormalizarProveedor(""))
}
