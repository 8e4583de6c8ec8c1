package http

import (
	"net/http"

	"github.com/tuanvumaihuynh/openshop/internal/apperr"
)

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Service) healthz(w http.ResponseWriter, r *http.Request) error {
	if s.healthChecker != nil {
		if ok, err := s.healthChecker.IsHealthy(r.Context()); !ok || err != nil {
			return apperr.ServiceUnavailableErr.WrapParent(err)
		}
	}

	s.writeJSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
	return nil
}
