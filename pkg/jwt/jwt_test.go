package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	token, err := Generate("secreto", "u-1", RoleFacturador, "logistica-api", 5)
	require.NoError(t, err)

	uid, role, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)
	assert.Equal(t, RoleFacturador, role)

	_, _, err = Parse("otro", token)
	assert.Error(t, err)
}

func TestGenerate_Expirado(t *testing.T) {
	token, err := Generate("secreto", "u-1", RoleAdmin, "logistica-api", -1)
	require.NoError(t, err)
	_, _, err = Parse("secreto", token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "u", RoleAdmin, "x", 1)
	assert.Error(t, err)
	_, _, err = Parse("", "abc")
	assert.Error(t, err)
}
