package server

import (
	"net/http"

	"hostcheck/pkg/log"
	"hostcheck/pkg/models"
	"hostcheck/pkg/report"

	"github.com/labstack/echo/v4"
)

var contentTypes = map[models.Format]string{
	models.FormatStructured: echo.MIMEApplicationJSONCharsetUTF8,
	models.FormatYAML:       "application/yaml; charset=UTF-8",
	models.FormatTabular:    "text/markdown; charset=UTF-8",
	models.FormatCombined:   "text/markdown; charset=UTF-8",
	models.FormatPlain:      echo.MIMETextPlainCharsetUTF8,
}

// getHealth handles the GET /health endpoint.
// It answers 200 for a healthy host and 503 otherwise, so load balancers can gate on it.
func (srv *HealthServer) getHealth(ctx echo.Context) error {
	format := models.FormatStructured
	if selector := ctx.QueryParam("format"); selector != "" {
		format, _ = models.ParseFormat(selector)
	}

	facts, eval := srv.checker.Run(ctx.Request().Context())
	srv.metrics.Observe(facts, eval)

	body, err := report.Render(facts, eval, format)
	if err != nil {
		log.Error().Err(err).Str("format", string(format)).Msg("Failed to render report")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to render report",
		})
	}

	status := http.StatusOK
	if !eval.Healthy() {
		status = http.StatusServiceUnavailable
	}

	return ctx.Blob(status, contentTypes[format], []byte(body))
}
