package jwt_test

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/catalogo-api/pkg/jwt"
)

const (
	secret = "test-secret-key-for-unit-tests"
	issuer = "catalogo-api-test"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "op-42", issuer, 60)
	require.NoError(t, err)

	op, err := pkgjwt.Parse(secret, issuer, tok)
	require.NoError(t, err)
	assert.Equal(t, "op-42", op)

	// sin emisor configurado no se valida el claim iss
	op, err = pkgjwt.Parse(secret, "", tok)
	require.NoError(t, err)
	assert.Equal(t, "op-42", op)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "op-42", issuer, 60)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(secret, "op-42", issuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", issuer, tok)
	assert.Error(t, err, "secret incorrecto")
	_, err = pkgjwt.Parse(secret, "otro-emisor", tok)
	assert.Error(t, err, "emisor distinto")
	_, err = pkgjwt.Parse(secret, issuer, expired)
	assert.Error(t, err, "token expirado")
	_, err = pkgjwt.Parse("", issuer, tok)
	assert.Error(t, err, "secret vacío")
}

func TestParse_SubjectComoOperador(t *testing.T) {
	claims := gojwt.RegisteredClaims{Subject: "op-sub", Issuer: issuer}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	op, err := pkgjwt.Parse(secret, issuer, tok)
	require.NoError(t, err)
	assert.Equal(t, "op-sub", op)

	anon, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{Issuer: issuer}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, issuer, anon)
	assert.ErrorIs(t, err, pkgjwt.ErrMissingOperator)
}
