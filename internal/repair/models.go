package repair

import (
	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/google/uuid"
)

// Report summarises one repair run.
type Report struct {
	Applied  bool      `json:"applied"`
	Checked  int       `json:"checked"`
	Drifts   []Drift   `json:"drifts"`
	Orphans  []Orphan  `json:"orphans"`
	Repaired int       `json:"repaired"`
	Failures []Failure `json:"failures,omitempty"`
}

// Drift is a composite whose cached totals differ from the recomputed ones.
type Drift struct {
	Kind       string          `json:"kind"`
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Cached     nutrition.Total `json:"cached"`
	Recomputed nutrition.Total `json:"recomputed"`
}

// Orphan is a reference from an active composite to a child that is not
// active. Missing is true when the child was never stored at all.
type Orphan struct {
	Kind      string    `json:"kind"`
	ID        uuid.UUID `json:"id"`
	ChildKind string    `json:"childKind"`
	ChildID   uuid.UUID `json:"childId"`
	Missing   bool      `json:"missing"`
}

// Failure is a correction that could not be saved.
type Failure struct {
	Kind  string    `json:"kind"`
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

func (r *Report) drift(kind string, id uuid.UUID, name string, cached, recomputed nutrition.Total) {
	r.Drifts = append(r.Drifts, Drift{Kind: kind, ID: id, Name: name, Cached: cached, Recomputed: recomputed})
}

func (r *Report) orphan(kind string, id uuid.UUID, childKind string, childID uuid.UUID, missing bool) {
	r.Orphans = append(r.Orphans, Orphan{Kind: kind, ID: id, ChildKind: childKind, ChildID: childID, Missing: missing})
}
