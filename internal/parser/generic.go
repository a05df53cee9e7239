package parser

import (
	"encoding/json"
	"sort"
	"strings"

	"pelotazo/internal/model"
	"pelotazo/internal/reader"

	"github.com/rs/zerolog/log"
)

// Logical fields every tarifa is probed for.
const (
	campoCodigo       = "codigo"
	campoNombre       = "nombre"
	campoDescripcion  = "descripcion"
	campoPrecioCompra = "precio_compra"
	campoPrecioVenta  = "precio_venta"
	campoStock        = "stock"
	campoStockMinimo  = "stock_minimo"
	campoDescuento    = "descuento"
	campoIVA          = "iva"
	campoNotas        = "notas"
	campoMarca        = "marca"
	campoCategoria    = "categoria"
	campoBarras       = "codigo_barras"
)

// aliasesCampo holds the ordered candidate column names per logical field,
// evaluated first-match-wins. The order encodes priority: e.g. PVP beats a
// bare PRECIO for the sale price.
var aliasesCampo = map[string][]string{
	campoCodigo:       {"CODIGO", "CÓDIGO", "REFERENCIA", "REF", "SKU", "EAN", "MATERIAL", "ID"},
	campoNombre:       {"DESCRIPCION", "DESCRIPCIÓN", "NOMBRE", "PRODUCTO", "ARTICULO", "DENOMINACION", "CONCEPTO", "TITULO"},
	campoDescripcion:  {"DESCRIPCION LARGA", "DESCRIPCIÓN LARGA", "CARACTERISTICAS", "ESPECIFICACIONES", "DETALLES", "FICHA TECNICA"},
	campoPrecioCompra: {"COSTE", "PRECIO COMPRA", "PRECIO COSTE", "IMPORTE BRUTO", "IMPORTE", "TARIFA"},
	campoPrecioVenta:  {"PVP FINAL", "P.V.P FINAL", "PVP", "P.V.P", "PRECIO VENTA", "PRECIO FINAL", "PRECIO RECOMENDADO"},
	campoStock:        {"STOCK ACTUAL", "STOCK", "UNIDADES", "UNID", "CANTIDAD", "EXISTENCIAS", "DISPONIBLE"},
	campoStockMinimo:  {"STOCK MINIMO", "STOCK MIN", "PUNTO PEDIDO", "MINIMO"},
	campoDescuento:    {"DESCUENTO", "DTO", "% DESCUENTO", "DESCUENTO %", "REBAJA"},
	campoIVA:          {"IVA", "TIPO IVA", "% IVA", "IVA %", "IMPUESTO"},
	campoNotas:        {"NOTAS", "NOTA", "OBSERVACIONES", "OBSERVACION", "OBS", "COMENTARIOS"},
	campoMarca:        {"MARCA", "FABRICANTE", "BRAND"},
	campoCategoria:    {"CATEGORIA", "CATEGORÍA", "FAMILIA", "GRUPO", "SECCION", "LINEA", "DEPARTAMENTO"},
	campoBarras:       {"CODIGO BARRAS", "CODIGO DE BARRAS", "EAN13", "EAN-13", "BARCODE", "GTIN"},
}

// categoriasPorKeyword maps product-name keywords to catalog categories.
// Ordered: first match wins, OTROS is the fallback of last resort.
var categoriasPorKeyword = []struct {
	Categoria string
	Keywords  []string
}{
	{"FRIGORÍFICOS", []string{"FRIGO", "FRIGORIFICO", "COMBI", "REFRIGERADOR", "NEVERA"}},
	{"LAVADORAS", []string{"LAVADORA", "LAVARROPAS", "CARGA FRONTAL", "CARGA SUPERIOR"}},
	{"LAVAVAJILLAS", []string{"LAVAVAJILLAS", "LAVAPLATOS"}},
	{"SECADORAS", []string{"SECADORA", "SECARROPAS"}},
	{"HORNOS", []string{"HORNO", "PIROLÍTICO", "MULTIFUNCIÓN"}},
	{"MICROONDAS", []string{"MICROONDAS", "MICRO"}},
	{"PLACAS", []string{"PLACA", "INDUCCIÓN", "VITROCERÁMICA", "ENCIMERA"}},
	{"CAMPANAS", []string{"CAMPANA", "EXTRACTORA", "EXTRACTOR"}},
	{"CAFETERAS", []string{"CAFETERA", "CAFÉ", "NESPRESSO", "DOLCE GUSTO"}},
	{"ASPIRADORES", []string{"ASPIRADOR", "ASPIRADORA", "ROBOT", "ESCOBA"}},
	{"BATIDORAS", []string{"BATIDORA", "AMASADORA", "PROCESADOR"}},
	{"PLANCHAS", []string{"PLANCHA", "CENTRO PLANCHADO"}},
	{"BÁSCULAS", []string{"BASCULA", "BÁSCULA", "PESO"}},
	{"PEQUEÑO ELECTRODOMÉSTICO", []string{"TOSTADOR", "EXPRIMIDOR", "SANDWICHERA", "FREIDORA", "LICUADORA"}},
}

// CategoriaOtros is attached when neither a header row nor a keyword decides.
const CategoriaOtros = "OTROS"

// palabrasNoMarca are leading all-caps words that never denote a brand.
var palabrasNoMarca = map[string]bool{
	"PACK": true, "SET": true, "KIT": true, "UNIDAD": true, "CAJA": true, "ROLLO": true,
}

// Config adapts the shared engine to one supplier's tarifa.
type Config struct {
	// Proveedor is forced onto every draft.
	Proveedor string
	// MarcaForzada overrides brand extraction when non-empty.
	MarcaForzada string
	// SoloProductos parsers only understand full product tarifas; for price-
	// or stock-only kinds their fixed columns are ignored and extraction runs
	// keyed purely by business key and the relevant numeric column.
	SoloProductos bool
	// Columnas pins logical fields to exact column names, skipping aliasing.
	Columnas map[string]string
}

type mapeo map[string]string // logical field -> actual column name

// parse runs the column-alias engine under this supplier's configuration.
func (cfg Config) parse(filas []reader.Fila, tipo string) *Resultado {
	if cfg.SoloProductos && tipo != model.TipoProductos {
		generico := Config{Proveedor: cfg.Proveedor}
		return generico.parse(filas, tipo)
	}
	if len(filas) == 0 {
		return &Resultado{}
	}

	cols := cfg.mapearColumnas(filas)
	if cols[campoCodigo] == "" || cols[campoNombre] == "" {
		log.Warn().Str("proveedor", cfg.Proveedor).
			Msg("no se detectaron columnas de codigo o descripcion")
		return &Resultado{}
	}

	res := &Resultado{}
	vistas := map[string]bool{}

	// Explicit fold: the current category is an accumulator carried across
	// rows, updated by header rows, attached to every product row after it.
	categoriaActual := ""
	for _, fila := range filas {
		if nombre, ok := esCabeceraCategoria(fila, cols); ok {
			categoriaActual = nombre
			if !vistas[nombre] {
				vistas[nombre] = true
				res.Categorias = append(res.Categorias, nombre)
			}
			continue
		}

		codigo := strings.TrimSpace(fila[cols[campoCodigo]])
		nombre := strings.TrimSpace(fila[cols[campoNombre]])
		if codigo == "" || nombre == "" {
			continue
		}
		// Subtotal rows repeat the code column with TOTAL markers.
		if strings.Contains(strings.ToUpper(codigo), "TOTAL") {
			continue
		}

		draft := cfg.construirDraft(fila, cols, codigo, nombre, categoriaActual)
		if draft.Categoria != "" && !vistas[draft.Categoria] {
			vistas[draft.Categoria] = true
			res.Categorias = append(res.Categorias, draft.Categoria)
		}
		res.Productos = append(res.Productos, draft)
	}

	log.Debug().Str("proveedor", cfg.Proveedor).
		Int("productos", len(res.Productos)).
		Int("categorias", len(res.Categorias)).
		Msg("tarifa parseada")
	return res
}

// mapearColumnas resolves each logical field to an actual column name:
// explicit pin first, then the alias list (exact match pass before substring
// pass) over the sorted column names. Rows are ragged (category headers often
// carry a single cell, trailing empties get dropped), so the candidate set is
// the union of keys across every row, not just the first.
func (cfg Config) mapearColumnas(filas []reader.Fila) mapeo {
	vistas := map[string]bool{}
	var columnas []string
	for _, fila := range filas {
		for col := range fila {
			if !vistas[col] {
				vistas[col] = true
				columnas = append(columnas, col)
			}
		}
	}
	sort.Strings(columnas)

	cols := mapeo{}
	for campo, aliases := range aliasesCampo {
		if fijo := cfg.Columnas[campo]; fijo != "" {
			cols[campo] = fijo
			continue
		}
		cols[campo] = buscarColumna(columnas, aliases)
	}
	return cols
}

func buscarColumna(columnas, aliases []string) string {
	for _, alias := range aliases {
		for _, col := range columnas {
			if strings.ToUpper(strings.TrimSpace(col)) == alias {
				return col
			}
		}
	}
	for _, alias := range aliases {
		for _, col := range columnas {
			if strings.Contains(strings.ToUpper(col), alias) {
				return col
			}
		}
	}
	return ""
}

// esCabeceraCategoria recognizes rows that name a category instead of a
// product: no business key, an all-caps description, and no monetary value.
func esCabeceraCategoria(fila reader.Fila, cols mapeo) (string, bool) {
	if strings.TrimSpace(fila[cols[campoCodigo]]) != "" {
		return "", false
	}
	desc := strings.TrimSpace(fila[cols[campoNombre]])
	if desc == "" || !esMayusculas(desc) {
		return "", false
	}
	if !LimpiarPrecio(fila[cols[campoPrecioVenta]]).IsZero() ||
		!LimpiarPrecio(fila[cols[campoPrecioCompra]]).IsZero() {
		return "", false
	}
	return desc, true
}

func (cfg Config) construirDraft(fila reader.Fila, cols mapeo, codigo, nombre, categoriaActual string) model.ProductoDraft {
	draft := model.ProductoDraft{
		Codigo:          codigo,
		Nombre:          nombre,
		Descripcion:     nombre,
		NombreProveedor: cfg.Proveedor,
	}
	if col := cols[campoDescripcion]; col != "" && strings.TrimSpace(fila[col]) != "" {
		draft.Descripcion = strings.TrimSpace(fila[col])
	}

	draft.PrecioCompra = LimpiarPrecio(fila[cols[campoPrecioCompra]])
	draft.PrecioVenta = LimpiarPrecio(fila[cols[campoPrecioVenta]])
	if draft.PrecioVenta.IsZero() {
		// Price-only column layouts: fall back to the cost column.
		draft.PrecioVenta = draft.PrecioCompra
	}
	draft.StockActual = LimpiarEntero(fila[cols[campoStock]])
	draft.StockMinimo = LimpiarEntero(fila[cols[campoStockMinimo]])

	if col := cols[campoIVA]; col != "" && strings.TrimSpace(fila[col]) != "" {
		iva := LimpiarPrecio(fila[col])
		draft.IVA = &iva
	}
	if col := cols[campoDescuento]; col != "" && strings.TrimSpace(fila[col]) != "" {
		dto := LimpiarPrecio(fila[col])
		draft.Descuento = &dto
	}
	if col := cols[campoBarras]; col != "" {
		draft.CodigoBarras = strings.TrimSpace(fila[col])
	}

	draft.Marca = cfg.extraerMarca(fila, cols, nombre)
	draft.Notas = concatenarNotas(fila, cols)
	draft.Categoria = resolverCategoria(fila, cols, categoriaActual, nombre)

	if origen, err := json.Marshal(fila); err == nil {
		draft.DatosOrigen = string(origen)
	}
	return draft
}

// resolverCategoria prefers an explicit category column, then the positional
// header category, then a keyword match on the product name, then OTROS.
func resolverCategoria(fila reader.Fila, cols mapeo, categoriaActual, nombre string) string {
	if col := cols[campoCategoria]; col != "" {
		if v := strings.TrimSpace(fila[col]); v != "" {
			return v
		}
	}
	if categoriaActual != "" {
		return categoriaActual
	}
	nombreUpper := strings.ToUpper(nombre)
	for _, kc := range categoriasPorKeyword {
		for _, kw := range kc.Keywords {
			if strings.Contains(nombreUpper, kw) {
				return kc.Categoria
			}
		}
	}
	return CategoriaOtros
}

func (cfg Config) extraerMarca(fila reader.Fila, cols mapeo, nombre string) string {
	if cfg.MarcaForzada != "" {
		return cfg.MarcaForzada
	}
	if col := cols[campoMarca]; col != "" {
		if v := strings.TrimSpace(fila[col]); v != "" {
			return v
		}
	}
	// Leading all-caps word heuristic: SONY, LG, BOSCH...
	palabras := strings.Fields(nombre)
	if len(palabras) > 0 {
		primera := palabras[0]
		if len(primera) >= 2 && len(primera) <= 15 && esMayusculas(primera) && !palabrasNoMarca[primera] {
			return primera
		}
	}
	return ""
}

// concatenarNotas joins every note-like column (mapped alias plus any column
// whose name smells like a note) into a single free-text field.
func concatenarNotas(fila reader.Fila, cols mapeo) string {
	var notas []string
	vistos := map[string]bool{}
	agregar := func(v string) {
		v = strings.TrimSpace(v)
		if v != "" && !vistos[v] {
			vistos[v] = true
			notas = append(notas, v)
		}
	}

	if col := cols[campoNotas]; col != "" {
		agregar(fila[col])
	}
	columnas := make([]string, 0, len(fila))
	for col := range fila {
		columnas = append(columnas, col)
	}
	sort.Strings(columnas)
	for _, col := range columnas {
		up := strings.ToUpper(col)
		if strings.Contains(up, "NOTA") || strings.Contains(up, "OBS") || strings.Contains(up, "COMENT") {
			agregar(fila[col])
		}
	}
	return strings.Join(notas, " | ")
}
