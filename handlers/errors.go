package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/ferreirogomes/imotok/models"
)

// statusForError traduz a taxonomia de erros do núcleo para códigos HTTP.
// Erros de registro/entrada viram 4xx; falhas ambientais (oráculo, trilho de
// pagamento) viram 502, sinalizando ao chamador que retentar faz sentido.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrUnknownAsset):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateAsset), errors.Is(err, models.ErrDistributionPending):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidValuation), errors.Is(err, models.ErrInvalidIncome):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrStaleOracleData), errors.Is(err, models.ErrOverflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrOracleUnavailable),
		errors.Is(err, models.ErrOracleMalformed),
		errors.Is(err, models.ErrTransferFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
