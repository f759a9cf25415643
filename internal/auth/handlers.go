package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/fdg312/nutrition-hub/internal/respond"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleDevAuth handles POST /v1/auth/dev
func (h *Handlers) HandleDevAuth(w http.ResponseWriter, r *http.Request) {
	var req DevAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(w, nil, apperr.Wrap(apperr.KindValidation, err, "invalid request body"))
		return
	}

	resp, err := h.service.SignInDev(req.Subject)
	if err != nil {
		respond.Error(w, nil, apperr.Internal(err))
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}
