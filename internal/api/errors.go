package api

import (
	"errors"
	"net/http"

	"github.com/horvbalint/recet/internal/extraction"
)

// extractionStatus maps a pipeline failure to an HTTP status and a client-safe message.
// Raw completion output never leaves the server.
func extractionStatus(err error) (int, string, extraction.ErrorKind) {
	var perr *extraction.PipelineError
	if !errors.As(err, &perr) {
		return http.StatusInternalServerError, "internal server error", ""
	}

	switch perr.Kind {
	case extraction.KindConfig:
		return http.StatusServiceUnavailable, "recipe extraction is not configured", perr.Kind
	case extraction.KindFetch:
		return http.StatusBadGateway, "could not fetch the page", perr.Kind
	case extraction.KindTextExtraction:
		return http.StatusUnprocessableEntity, "the page has no readable text", perr.Kind
	case extraction.KindCompletion:
		return http.StatusBadGateway, "the language model could not be reached", perr.Kind
	case extraction.KindSchema:
		return http.StatusBadGateway, "the language model returned an unusable recipe", perr.Kind
	default:
		return http.StatusInternalServerError, "internal server error", perr.Kind
	}
}
