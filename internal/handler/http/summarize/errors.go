package summarize

import (
	"context"
	"errors"
	"net/http"

	"polysum/internal/domain/entity"
	"polysum/internal/handler/http/respond"
	"polysum/internal/infra/backend"
	"polysum/internal/infra/fetcher"
	"polysum/internal/infra/translator"
	"polysum/internal/resilience/circuitbreaker"
	sumUC "polysum/internal/usecase/summarize"
)

// classify maps pipeline errors to an HTTP status and a caller-safe message.
func classify(err error) *respond.AppError {
	var (
		upstream  *translator.UpstreamError
		exhausted *translator.RetryExhaustedError
		tooLarge  *http.MaxBytesError
	)

	switch {
	case errors.Is(err, entity.ErrInvalidMode), errors.Is(err, entity.ErrInvalidInput):
		return respond.NewAppError(http.StatusBadRequest, err.Error(), nil)
	case errors.As(err, &tooLarge):
		return respond.NewAppError(http.StatusRequestEntityTooLarge, "request body too large", nil)

	case errors.Is(err, translator.ErrMissingCredentials), errors.Is(err, sumUC.ErrNoTranslator):
		return respond.NewAppError(http.StatusServiceUnavailable, "translation is not configured", err)
	case errors.Is(err, backend.ErrUnavailable), circuitbreaker.IsUnavailable(err):
		return respond.NewAppError(http.StatusServiceUnavailable, "summarization backend temporarily unavailable", err)

	case errors.As(err, &exhausted):
		return respond.NewAppError(http.StatusBadGateway, "translation service unavailable after retries", err)
	case errors.As(err, &upstream):
		return respond.NewAppError(http.StatusBadGateway, "translation service rejected the request", err)
	case errors.Is(err, translator.ErrMalformedResponse):
		return respond.NewAppError(http.StatusBadGateway, "translation service returned an invalid response", err)

	case errors.Is(err, context.DeadlineExceeded):
		return respond.NewAppError(http.StatusGatewayTimeout, "request timeout", err)
	}

	return respond.NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// classifyFetch maps article extraction errors.
func classifyFetch(err error) *respond.AppError {
	switch {
	case fetcher.IsClientError(err):
		return respond.NewAppError(http.StatusBadRequest, "url is invalid or not allowed", err)
	case errors.Is(err, fetcher.ErrReadabilityFailed):
		return respond.NewAppError(http.StatusUnprocessableEntity, "no readable article found", err)
	case errors.Is(err, fetcher.ErrTimeout):
		return respond.NewAppError(http.StatusGatewayTimeout, "article fetch timeout", err)
	case errors.Is(err, fetcher.ErrBodyTooLarge):
		return respond.NewAppError(http.StatusBadGateway, "article page too large", err)
	case circuitbreaker.IsUnavailable(err):
		return respond.NewAppError(http.StatusServiceUnavailable, "article fetching temporarily unavailable", err)
	}
	return respond.NewAppError(http.StatusBadGateway, "failed to fetch article", err)
}

// Describe returns the status code and caller-safe message for a
// summarization error. Non-HTTP entry points use it to report failures the
// same way the API does.
func Describe(err error) (int, string) {
	app := classify(err)
	return app.Code, app.UserMsg
}
