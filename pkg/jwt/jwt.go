package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingOperator el token es válido pero no identifica al operador.
var ErrMissingOperator = errors.New("jwt: token sin operador")

// Claims claims estándar más el operador que firma las decisiones del catálogo.
// Los tokens los emite el servicio de autenticación; aquí solo se verifican.
type Claims struct {
	jwt.RegisteredClaims
	OperatorID string `json:"user_id"`
}

// Generate firma un token para el operador. Lo usan los tests y las herramientas locales.
func Generate(secret, operatorID, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   operatorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		OperatorID: operatorID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma, expiración y (si se indica) emisor, y devuelve el id del operador.
// Si el claim user_id falta se usa el subject.
func Parse(secret, issuer, tokenString string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("claims inválidos")
	}
	operatorID := claims.OperatorID
	if operatorID == "" {
		operatorID = claims.Subject
	}
	if operatorID == "" {
		return "", ErrMissingOperator
	}
	return operatorID, nil
}
