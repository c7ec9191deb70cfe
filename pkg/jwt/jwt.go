package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles reconocidos por el API.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"  // bodega central: procesa, despacha y cierra pedidos
	RoleBranch = "branch" // sucursal: registra pedidos y confirma recepción
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// BranchName vacío significa usuario de bodega central (sin sucursal).
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	BranchName string `json:"branch_name,omitempty"`
	Role       string `json:"role"`
}

// Identity es el resultado de validar un token.
type Identity struct {
	UserID     string
	BranchName string
	Role       string
}

// Generate genera un token JWT firmado. Lo usan las pruebas y herramientas internas;
// en producción los tokens los emite el servicio de autenticación.
func Generate(secret, issuer string, id Identity, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:     id.UserID,
		BranchName: id.BranchName,
		Role:       id.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la identidad.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	return Identity{UserID: claims.UserID, BranchName: claims.BranchName, Role: claims.Role}, nil
}
