package repair

import (
	"context"

	"github.com/fdg312/nutrition-hub/internal/dailyplans"
	"github.com/fdg312/nutrition-hub/internal/events"
	"github.com/fdg312/nutrition-hub/internal/foods"
	"github.com/fdg312/nutrition-hub/internal/meals"
	"github.com/fdg312/nutrition-hub/internal/nutrition"
	"github.com/fdg312/nutrition-hub/internal/rawfoods"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service recomputes cached aggregates from scratch and reports (and
// optionally fixes) any drift. Reference lists are never modified.
type Service struct {
	rawFoods *rawfoods.Service
	foods    *foods.Service
	meals    *meals.Service
	plans    *dailyplans.Service
	logger   logrus.FieldLogger
}

// NewService creates a new repair service.
func NewService(rawFoods *rawfoods.Service, foods *foods.Service, meals *meals.Service, plans *dailyplans.Service, logger logrus.FieldLogger) *Service {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Service{
		rawFoods: rawFoods,
		foods:    foods,
		meals:    meals,
		plans:    plans,
		logger:   logger.WithField("component", "repair"),
	}
}

// child is a resolved reference.
type child struct {
	values  nutrition.Values
	active  bool
	missing bool
}

// Run checks every active Food, Meal and DailyPlan, bottom-up. Totals of a
// level are computed from the recomputed totals of the level below, so a dry
// run reports the same result an applying run produces.
func (s *Service) Run(ctx context.Context, apply bool) (*Report, error) {
	report := &Report{Applied: apply, Drifts: []Drift{}, Orphans: []Orphan{}}

	foodValues, err := s.repairFoods(ctx, apply, report)
	if err != nil {
		return nil, err
	}
	mealValues, err := s.repairMeals(ctx, apply, report, foodValues)
	if err != nil {
		return nil, err
	}
	if err := s.repairPlans(ctx, apply, report, mealValues); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"apply":    apply,
		"checked":  report.Checked,
		"drifts":   len(report.Drifts),
		"orphans":  len(report.Orphans),
		"repaired": report.Repaired,
	}).Info("repair finished")
	return report, nil
}

func (s *Service) repairFoods(ctx context.Context, apply bool, report *Report) (map[uuid.UUID]nutrition.Values, error) {
	all, err := s.foods.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	recomputed := make(map[uuid.UUID]nutrition.Values, len(all))
	for i := range all {
		f := &all[i]
		portions := make([]nutrition.Portion, 0, len(f.Ingredients))
		for _, ing := range f.Ingredients {
			raw, ok, err := s.rawFoods.FindAny(ctx, ing.RawFoodID)
			if err != nil {
				return nil, err
			}
			if !ok || raw.IsDeleted {
				report.orphan("food", f.ID, "raw_food", ing.RawFoodID, !ok)
			}
			if !ok {
				// rates unknown: the ingredient contributes its quantity only
				portions = append(portions, nutrition.Portion{Quantity: ing.Quantity})
				continue
			}
			portions = append(portions, nutrition.Portion{Rates: raw.Values, Quantity: ing.Quantity})
		}

		total := nutrition.RecomputeFood(portions)
		recomputed[f.ID] = total.Values
		report.Checked++

		if f.Total.ApproxEqual(total) {
			continue
		}
		report.drift("food", f.ID, f.Name, f.Total, total)
		if apply {
			f.Total = total
			s.save(report, "food", f.ID, s.foods.Save(ctx, f, events.OpRepair))
		}
	}
	return recomputed, nil
}

func (s *Service) repairMeals(ctx context.Context, apply bool, report *Report, foodValues map[uuid.UUID]nutrition.Values) (map[uuid.UUID]nutrition.Values, error) {
	all, err := s.meals.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	recomputed := make(map[uuid.UUID]nutrition.Values, len(all))
	for i := range all {
		m := &all[i]
		values := make([]nutrition.Values, 0, len(m.FoodIDs))
		for _, id := range m.FoodIDs {
			c, err := s.resolve(ctx, id, foodValues, s.foods.ValuesOf)
			if err != nil {
				return nil, err
			}
			if !c.active {
				report.orphan("meal", m.ID, "food", id, c.missing)
			}
			values = append(values, c.values)
		}

		total := nutrition.Sum(values...)
		recomputed[m.ID] = total
		report.Checked++

		if m.TotalValues.ApproxEqual(total) {
			continue
		}
		report.drift("meal", m.ID, m.Name, nutrition.Total{Values: m.TotalValues}, nutrition.Total{Values: total})
		if apply {
			m.TotalValues = total
			s.save(report, "meal", m.ID, s.meals.Save(ctx, m, events.OpRepair))
		}
	}
	return recomputed, nil
}

func (s *Service) repairPlans(ctx context.Context, apply bool, report *Report, mealValues map[uuid.UUID]nutrition.Values) error {
	all, err := s.plans.GetAll(ctx)
	if err != nil {
		return err
	}

	for i := range all {
		d := &all[i]
		values := make([]nutrition.Values, 0, len(d.MealIDs))
		for _, id := range d.MealIDs {
			c, err := s.resolve(ctx, id, mealValues, s.meals.ValuesOf)
			if err != nil {
				return err
			}
			if !c.active {
				report.orphan("daily_plan", d.ID, "meal", id, c.missing)
			}
			values = append(values, c.values)
		}

		total := nutrition.Sum(values...)
		report.Checked++

		if d.TotalValues.ApproxEqual(total) {
			continue
		}
		report.drift("daily_plan", d.ID, d.Name, nutrition.Total{Values: d.TotalValues}, nutrition.Total{Values: total})
		if apply {
			d.TotalValues = total
			s.save(report, "daily_plan", d.ID, s.plans.Save(ctx, d, events.OpRepair))
		}
	}
	return nil
}

// resolve prefers the recomputed values of active children and falls back
// to the cached values of deleted ones.
func (s *Service) resolve(ctx context.Context, id uuid.UUID, recomputed map[uuid.UUID]nutrition.Values,
	cached func(context.Context, uuid.UUID) (nutrition.Values, bool, error)) (child, error) {
	if v, ok := recomputed[id]; ok {
		return child{values: v, active: true}, nil
	}
	v, ok, err := cached(ctx, id)
	if err != nil {
		return child{}, err
	}
	return child{values: v, missing: !ok}, nil
}

func (s *Service) save(report *Report, kind string, id uuid.UUID, err error) {
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"entity": kind, "id": id}).Warn("repair save failed")
		report.Failures = append(report.Failures, Failure{Kind: kind, ID: id, Error: err.Error()})
		return
	}
	report.Repaired++
}
