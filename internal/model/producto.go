package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The catalog store declares its monetary fields as number columns and
	// rejects quoted values.
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductoDraft is one parsed input row before persistence. Parsers fill it
// from raw file rows; the validator normalizes it and computes derived fields.
// Optional numeric fields are pointers so that "absent" and "zero" stay
// distinguishable until normalization.
type ProductoDraft struct {
	Codigo       string
	Nombre       string
	Descripcion  string
	PrecioVenta  decimal.Decimal
	PrecioCompra decimal.Decimal
	IVA          *decimal.Decimal
	Descuento    *decimal.Decimal
	StockActual  int
	StockMinimo  int
	CodigoBarras string
	Notas        string
	Marca        string

	// Categoria detected by the parser (positional header or keyword match),
	// still a name at this point; the resolver turns it into a record id.
	Categoria       string
	NombreProveedor string

	// Derived by the validator when both prices are known.
	BeneficioUnitario decimal.Decimal
	Margen            decimal.Decimal
	BeneficioTotal    decimal.Decimal

	// Raw source row, serialized for traceability.
	DatosOrigen string
}

// Producto is the persisted catalog record, keyed by codigo as a natural
// unique key (lookup-then-branch, the store enforces nothing).
type Producto struct {
	ID                string          `json:"id,omitempty"`
	Codigo            string          `json:"codigo"`
	Nombre            string          `json:"nombre"`
	Descripcion       string          `json:"descripcion"`
	PrecioVenta       decimal.Decimal `json:"precio_venta"`
	PrecioCompra      decimal.Decimal `json:"precio_compra"`
	IVA               int             `json:"iva"`
	RecargoIVA        decimal.Decimal `json:"recargo_iva"`
	Descuento         decimal.Decimal `json:"descuento"`
	StockActual       int             `json:"stock_actual"`
	StockMinimo       int             `json:"stock_minimo"`
	UnidadesVendidas  int             `json:"unidades_vendidas"`
	CodigoBarras      string          `json:"codigo_barras"`
	Marca             string          `json:"marca"`
	Notas             string          `json:"notas"`
	BeneficioUnitario decimal.Decimal `json:"beneficio_unitario"`
	Margen            decimal.Decimal `json:"margen"`
	BeneficioTotal    decimal.Decimal `json:"beneficio_total"`
	Activo            bool            `json:"activo"`
	VisibleOnline     bool            `json:"visible_online"`
	Reservable        bool            `json:"reservable"`
	AlertaStockBajo   bool            `json:"alerta_stock_bajo"`
	FechaAlta         time.Time       `json:"fecha_alta"`

	// Relation fields hold catalog-store record ids. On re-import the
	// existing values survive unless the new draft resolved a replacement.
	Categoria       string `json:"categoria,omitempty"`
	Proveedor       string `json:"proveedor,omitempty"`
	NombreProveedor string `json:"nombre_proveedor,omitempty"`

	DatosOrigen string `json:"datos_origen,omitempty"`
}
