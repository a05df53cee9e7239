package parser

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// LimpiarPrecio coerces a monetary cell into a decimal. Supplier tarifas mix
// currency symbols, thousand separators and comma decimals; anything that
// still fails to parse becomes zero, never an error.
func LimpiarPrecio(v string) decimal.Decimal {
	limpio := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '.' || r == ',' || r == '-' {
			return r
		}
		return -1
	}, v)
	limpio = strings.ReplaceAll(limpio, ",", ".")

	// With more than one dot, only the last one separates decimals.
	if partes := strings.Split(limpio, "."); len(partes) > 2 {
		limpio = strings.Join(partes[:len(partes)-1], "") + "." + partes[len(partes)-1]
	}

	d, err := decimal.NewFromString(limpio)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// LimpiarEntero coerces a stock-like cell into an int, truncating decimals.
func LimpiarEntero(v string) int {
	return int(LimpiarPrecio(v).IntPart())
}

// esMayusculas reports whether s contains at least one letter and no
// lower-case letters, the shape of a category header description.
func esMayusculas(s string) bool {
	tieneLetra := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			tieneLetra = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return tieneLetra
}
