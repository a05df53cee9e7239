// Package notes mines structured refund signals out of the free-text note
// columns that suppliers attach to returned stock.
package notes

import (
	"regexp"
	"strings"
)

// Abono is a refund signal extracted from a note. Sub-signals are optional:
// a note can be classified as a refund with none of them present.
type Abono struct {
	EsAbono     bool   `json:"es_abono"`
	FechaAbono  string `json:"fecha_abono,omitempty"`
	Responsable string `json:"responsable,omitempty"`
	Motivo      string `json:"motivo,omitempty"`
}

var fechaAbonoRe = regexp.MustCompile(`ABONADO\s+(\d{1,2}/\d{1,2}/\d{2,4})`)

// responsables maps carrier phrases to who took the unit away.
var responsables = []struct {
	Frase       string
	Responsable string
}{
	{"SE LO LLEVA PACO", "PACO"},
	{"SE LO LLEVA AGENCIA", "AGENCIA"},
	{"SE LO LLEVA SERVICIO", "SERVICIO TÉCNICO"},
}

// motivos is the ordered failure-keyword list, first match wins.
var motivos = []string{
	"NO FUNCIONA",
	"ROTO",
	"NO SALE EL CAFÉ",
	"NO SALE EL CAFE",
	"FALTA",
	"AVERÍA",
	"AVERIA",
	"DESCONCHADO",
	"GOLPE",
}

// Analizar classifies a note. Returns nil for blank input or when the note
// carries no refund marker.
func Analizar(texto string) *Abono {
	texto = strings.TrimSpace(texto)
	if texto == "" {
		return nil
	}

	upper := strings.ToUpper(texto)
	if !strings.Contains(upper, "ABONADO") {
		return nil
	}

	abono := &Abono{EsAbono: true}
	if m := fechaAbonoRe.FindStringSubmatch(upper); m != nil {
		abono.FechaAbono = m[1]
	}
	for _, r := range responsables {
		if strings.Contains(upper, r.Frase) {
			abono.Responsable = r.Responsable
			break
		}
	}
	for _, motivo := range motivos {
		if strings.Contains(upper, motivo) {
			abono.Motivo = normalizarMotivo(motivo)
			break
		}
	}
	return abono
}

// normalizarMotivo folds the accent-less spellings onto the canonical form.
func normalizarMotivo(motivo string) string {
	switch motivo {
	case "AVERIA":
		return "AVERÍA"
	case "NO SALE EL CAFE":
		return "NO SALE EL CAFÉ"
	}
	return motivo
}
