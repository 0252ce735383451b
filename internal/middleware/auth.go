package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
)

const (
	ContextUserID       = "userID"
	ContextBarbershopID = "barbershopID"
	ContextUserRole     = "userRole"
)

// staff is who a token speaks for. The subject is the barber whose queue the
// request operates on.
type staff struct {
	userID       uint
	barbershopID uint
	role         string
}

var errBadClaims = errors.New("token without sub/barbershopId")

func staffFrom(claims jwt.MapClaims) (staff, error) {
	sub, ok1 := claims["sub"].(float64)
	shop, ok2 := claims["barbershopId"].(float64)
	if !ok1 || !ok2 || sub <= 0 || shop < 0 {
		return staff{}, errBadClaims
	}
	role, _ := claims["role"].(string)
	return staff{userID: uint(sub), barbershopID: uint(shop), role: role}, nil
}

// AuthMiddleware accepts the HMAC staff tokens issued by the barbershop API.
func AuthMiddleware(secret string) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	keyFunc := func(*jwt.Token) (any, error) { return []byte(secret), nil }

	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			httperr.Unauthorized(c, "missing_token", "Token ausente.")
			c.Abort()
			return
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, keyFunc); err != nil {
			httperr.Unauthorized(c, "invalid_token", "Token inválido.")
			c.Abort()
			return
		}

		who, err := staffFrom(claims)
		if err != nil {
			httperr.Unauthorized(c, "invalid_token_payload", "Token sem barbeiro ou barbearia.")
			c.Abort()
			return
		}

		c.Set(ContextUserID, who.userID)
		c.Set(ContextBarbershopID, who.barbershopID)
		c.Set(ContextUserRole, who.role)
		c.Next()
	}
}
