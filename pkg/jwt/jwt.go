package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims incluye los claims estándar JWT más el tipo de login.
// Los permisos viajan en Audience como "nombre.rango"; así el middleware decide sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	LoginType int `json:"login_type"`
}

// UserID devuelve el id numérico guardado en Subject.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("jwt: subject inválido %q", c.Subject)
	}
	return id, nil
}

// Grants devuelve los permisos del token.
func (c *Claims) Grants() []string {
	return []string(c.Audience)
}

// Generate genera un token firmado (HS512) para userID con los permisos indicados.
func Generate(secret string, userID int64, grants []string, loginType int, issuer string, validity time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			Audience:  jwt.ClaimStrings(grants),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		LoginType: loginType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma, emisor y vigencia del token.
func Parse(secret, tokenString, issuer string) (*Claims, error) {
	return parse(secret, tokenString, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
}

// ParseForRenewal valida solo la firma y el emisor: un token expirado sigue sirviendo para renovarse.
func ParseForRenewal(secret, tokenString, issuer string) (*Claims, error) {
	claims, err := parse(secret, tokenString, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, err
	}
	if claims.Issuer != issuer {
		return nil, fmt.Errorf("jwt: emisor inesperado %q", claims.Issuer)
	}
	return claims, nil
}

func parse(secret, tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("claims inválidos")
	}
	return claims, nil
}
