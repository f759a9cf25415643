package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Status maps an error kind to its HTTP status.
func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindInvalidRawFood, apperr.KindInvalidIngredient:
		return http.StatusBadRequest
	case apperr.KindInstanceNotFound,
		apperr.KindRawFoodNotFound,
		apperr.KindFoodNotFound,
		apperr.KindMealNotFound,
		apperr.KindDailyPlanNotFound,
		apperr.KindIngredientNotFound,
		apperr.KindRestaurantNotFound,
		apperr.KindGroceryStoreNotFound:
		return http.StatusNotFound
	case apperr.KindFoodAlreadyExists, apperr.KindMealAlreadyExists, apperr.KindConcurrentModification:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err in the standard error format. Internal causes are logged
// and never sent to the client.
func Error(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	e := apperr.From(err)
	status := Status(e.Name)

	detail := ErrorDetail{Name: string(e.Name), Message: e.Message}
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).Error("request failed")
		}
	} else if e.Cause != nil {
		detail.Cause = e.Cause.Error()
	}

	JSON(w, status, ErrorResponse{Error: detail})
}

// Decode reads a JSON body into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.KindValidation, "request body is empty")
		}
		return apperr.Wrap(apperr.KindValidation, err, "invalid request body")
	}
	return nil
}

// PathID parses the named path value as a uuid.
func PathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.KindValidation, err, "%s must be a valid uuid", name)
	}
	return id, nil
}

// ParseIDs converts string ids, reporting the first malformed one.
func ParseIDs(field string, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, err, "%s[%d] must be a valid uuid", field, i)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseID is ParseIDs for a single required value.
func ParseID(field, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, apperr.New(apperr.KindValidation, "%s is required", field)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.KindValidation, err, "%s must be a valid uuid", field)
	}
	return id, nil
}
