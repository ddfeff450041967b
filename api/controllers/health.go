package controllers

import (
	"net/http"

	"github.com/suppcart/storefront/api/responses"
	"github.com/suppcart/storefront/pkg/db"
	pkgerrors "github.com/suppcart/storefront/pkg/errors"
	"github.com/suppcart/storefront/pkg/logger"
)

// HealthController serves the liveness and readiness probes.
type HealthController struct {
	db   db.Pinger
	logg *logger.Logger
}

func NewHealthController(pinger db.Pinger, logg *logger.Logger) *HealthController {
	return &HealthController{db: pinger, logg: logg}
}

func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	if c.db != nil {
		if err := c.db.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), c.logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store unreachable"))
			return
		}
	}
	responses.WriteSuccess(w, map[string]string{"status": "ready"})
}
