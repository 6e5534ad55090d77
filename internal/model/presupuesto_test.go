package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPuedeTransicionar(t *testing.T) {
	legales := []struct{ de, a EstadoPresupuesto }{
		{EstadoBorrador, EstadoEnviado},
		{EstadoEnviado, EstadoAprobado},
		{EstadoEnviado, EstadoRechazado},
	}
	for _, tc := range legales {
		assert.True(t, PuedeTransicionar(tc.de, tc.a), "%s → %s deberia ser legal", tc.de, tc.a)
	}

	ilegales := []struct{ de, a EstadoPresupuesto }{
		{EstadoBorrador, EstadoAprobado},
		{EstadoBorrador, EstadoRechazado},
		{EstadoBorrador, EstadoBorrador},
		{EstadoEnviado, EstadoBorrador},
		{EstadoEnviado, EstadoEnviado},
		{EstadoAprobado, EstadoRechazado},
		{EstadoAprobado, EstadoEnviado},
		{EstadoRechazado, EstadoAprobado},
		{EstadoRechazado, EstadoBorrador},
	}
	for _, tc := range ilegales {
		assert.False(t, PuedeTransicionar(tc.de, tc.a), "%s → %s deberia ser ilegal", tc.de, tc.a)
	}
}

func TestEsEditable(t *testing.T) {
	assert.True(t, EstadoBorrador.EsEditable())
	assert.False(t, EstadoEnviado.EsEditable())
	assert.False(t, EstadoAprobado.EsEditable())
	assert.False(t, EstadoRechazado.EsEditable())
}

func TestRequierePDF(t *testing.T) {
	assert.False(t, EstadoBorrador.RequierePDF())
	assert.True(t, EstadoEnviado.RequierePDF())
	assert.True(t, EstadoAprobado.RequierePDF())
	assert.True(t, EstadoRechazado.RequierePDF())
}

func TestEstadoValido(t *testing.T) {
	assert.True(t, EstadoEnviado.Valido())
	assert.False(t, EstadoPresupuesto("pendiente").Valido())
	assert.False(t, EstadoPresupuesto("").Valido())
}
