package httperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// ======================================================
// Business code -> HTTP
// ======================================================

type mapping struct {
	status  int
	message string
}

var businessStatus = map[string]mapping{
	"not_found":           {http.StatusNotFound, "Agendamento não encontrado na fila."},
	"invalid_state":       {http.StatusConflict, "Agendamento em estado inválido para a operação."},
	"invalid_position":    {http.StatusUnprocessableEntity, "Posição fora dos limites da fila."},
	"invalid_transition":  {http.StatusConflict, "Mudança de status não permitida."},
	"concurrent_conflict": {http.StatusConflict, "A fila foi alterada por outra operação. Recarregue e tente novamente."},
	"invalid_priority":    {http.StatusBadRequest, "Prioridade inválida."},
	"invalid_status":      {http.StatusBadRequest, "Status inválido."},
	"invalid_date":        {http.StatusBadRequest, "Data inválida."},
	"invalid_time":        {http.StatusBadRequest, "Horário inválido."},
}

// FromError writes the response matching err. A request that ran out of time
// may still have committed, so it is reported as an unknown outcome.
func FromError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		Write(c, http.StatusGatewayTimeout, "unknown_outcome", "Resultado desconhecido. Recarregue a fila antes de tentar novamente.")
		return
	}

	if code, ok := CodeOf(err); ok {
		if m, found := businessStatus[code]; found {
			Write(c, m.status, code, m.message)
			return
		}
		BadRequest(c, code, code)
		return
	}

	Internal(c, "internal_error", "Erro interno.")
}
