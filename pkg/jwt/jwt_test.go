package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/branch-fulfillment-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestJWT_GenerateAndParse(t *testing.T) {
	in := pkgjwt.Identity{UserID: "u-1", BranchName: "Sucursal Norte", Role: pkgjwt.RoleBranch}
	tok, err := pkgjwt.Generate(testSecret, "test", in, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	out, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "test", pkgjwt.Identity{UserID: "u-1", Role: pkgjwt.RoleStaff}, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "test", pkgjwt.Identity{UserID: "u-1", Role: pkgjwt.RoleStaff}, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestJWT_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "test", pkgjwt.Identity{UserID: "u-1"}, 60)
	assert.Error(t, err)
}
