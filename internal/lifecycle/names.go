package lifecycle

import (
	"strings"
	"unicode/utf8"

	"github.com/fdg312/nutrition-hub/internal/apperr"
	"github.com/google/uuid"
)

// MaxNameLength bounds the name of every entity, counted in characters.
const MaxNameLength = 100

// CheckName validates a composite name: required and at most MaxNameLength.
func CheckName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.New(apperr.KindValidation, "name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return apperr.New(apperr.KindValidation, "name must be at most %d characters", MaxNameLength)
	}
	return nil
}

// FirstDuplicate returns the first id that appears earlier in ids, if any.
func FirstDuplicate(ids []uuid.UUID) (uuid.UUID, bool) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return uuid.Nil, false
}

// Contains reports whether id is present in ids.
func Contains(ids []uuid.UUID, id uuid.UUID) bool {
	return IndexOf(ids, id) >= 0
}

// IndexOf returns the position of id in ids or -1.
func IndexOf(ids []uuid.UUID, id uuid.UUID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
