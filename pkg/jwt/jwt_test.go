package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contabilidad/pkg/jwt"
)

const (
	secret   = "test-secret-key-for-unit-tests"
	operator = "cajera-1"
	issuer   = "contabilidad-test"
)

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := jwt.Generate(secret, operator, jwt.RoleViewer, issuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	op, role, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, operator, op)
	assert.Equal(t, jwt.RoleViewer, role)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := jwt.Generate(secret, operator, jwt.RoleAdmin, issuer, -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse(secret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := jwt.Generate(secret, operator, jwt.RoleAdmin, issuer, 60)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestGenerate_SinOperadorNiSecret(t *testing.T) {
	_, err := jwt.Generate(secret, "", jwt.RoleAdmin, issuer, 60)
	assert.Error(t, err)

	_, err = jwt.Generate("", operator, jwt.RoleAdmin, issuer, 60)
	assert.Error(t, err)
}
