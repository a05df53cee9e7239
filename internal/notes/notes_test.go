package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalizarNotaCompleta(t *testing.T) {
	abono := Analizar("ABONADO 12/03/24 SE LO LLEVA PACO NO FUNCIONA")
	require.NotNil(t, abono)

	assert.True(t, abono.EsAbono)
	assert.Equal(t, "12/03/24", abono.FechaAbono)
	assert.Equal(t, "PACO", abono.Responsable)
	assert.Equal(t, "NO FUNCIONA", abono.Motivo)
}

func TestAnalizarNotaVacia(t *testing.T) {
	assert.Nil(t, Analizar(""))
	assert.Nil(t, Analizar("   "))
}

func TestAnalizarSinMarcadorDeAbono(t *testing.T) {
	assert.Nil(t, Analizar("cliente no contesta, volver a llamar"))
}

func TestAnalizarAbonoSinSubsenales(t *testing.T) {
	abono := Analizar("abonado al cliente en tienda")
	require.NotNil(t, abono)

	assert.True(t, abono.EsAbono)
	assert.Empty(t, abono.FechaAbono)
	assert.Empty(t, abono.Responsable)
	assert.Empty(t, abono.Motivo)
}

func TestAnalizarFechaConCuatroDigitos(t *testing.T) {
	abono := Analizar("ABONADO 5/11/2023 unidad con golpe en el lateral")
	require.NotNil(t, abono)

	assert.Equal(t, "5/11/2023", abono.FechaAbono)
	assert.Equal(t, "GOLPE", abono.Motivo)
}

func TestAnalizarResponsables(t *testing.T) {
	casos := map[string]string{
		"ABONADO se lo lleva agencia":          "AGENCIA",
		"ABONADO 3/2/24 se lo lleva servicio":  "SERVICIO TÉCNICO",
		"ABONADO roto, se lo lleva paco":       "PACO",
		"ABONADO sin responsable identificado": "",
	}
	for nota, esperado := range casos {
		abono := Analizar(nota)
		require.NotNil(t, abono, nota)
		assert.Equal(t, esperado, abono.Responsable, nota)
	}
}

func TestAnalizarPrimerMotivoGana(t *testing.T) {
	abono := Analizar("ABONADO no funciona y ademas llega roto")
	require.NotNil(t, abono)
	assert.Equal(t, "NO FUNCIONA", abono.Motivo)
}

func TestAnalizarMotivoSinAcentos(t *testing.T) {
	abono := Analizar("ABONADO por averia del motor")
	require.NotNil(t, abono)
	assert.Equal(t, "AVERÍA", abono.Motivo)
}
