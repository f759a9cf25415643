package nutrition

import "math"

// Values holds macro nutrients. For a raw food they are rates per 100 units of
// quantity; for composites they are absolute amounts.
type Values struct {
	Protein  float64 `json:"protein" yaml:"protein"`
	Carb     float64 `json:"carb" yaml:"carb"`
	Fat      float64 `json:"fat" yaml:"fat"`
	Calories float64 `json:"calories" yaml:"calories"`
}

func (v Values) Add(o Values) Values {
	return Values{
		Protein:  v.Protein + o.Protein,
		Carb:     v.Carb + o.Carb,
		Fat:      v.Fat + o.Fat,
		Calories: v.Calories + o.Calories,
	}
}

func (v Values) Sub(o Values) Values {
	return v.Add(o.Scale(-1))
}

func (v Values) Scale(f float64) Values {
	return Values{
		Protein:  v.Protein * f,
		Carb:     v.Carb * f,
		Fat:      v.Fat * f,
		Calories: v.Calories * f,
	}
}

// Weighted converts per-100 rates into the contribution of quantity units.
func (v Values) Weighted(quantity float64) Values {
	return v.Scale(quantity / 100)
}

// HasNegative reports whether any component is below zero.
func (v Values) HasNegative() bool {
	return v.Protein < 0 || v.Carb < 0 || v.Fat < 0 || v.Calories < 0
}

// ApproxEqual compares component-wise with a relative tolerance.
func (v Values) ApproxEqual(o Values) bool {
	return ApproxEqual(v.Protein, o.Protein) &&
		ApproxEqual(v.Carb, o.Carb) &&
		ApproxEqual(v.Fat, o.Fat) &&
		ApproxEqual(v.Calories, o.Calories)
}

// Total is the cached aggregate of a Food: summed weighted values plus the
// summed ingredient quantity.
type Total struct {
	Values   Values  `json:"values" yaml:"values"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
}

// AddPortion applies a signed quantity of an ingredient with the given rates.
// Negative quantities remove a previously added portion.
func (t Total) AddPortion(rates Values, quantity float64) Total {
	return Total{
		Values:   t.Values.Add(rates.Weighted(quantity)),
		Quantity: t.Quantity + quantity,
	}
}

func (t Total) ApproxEqual(o Total) bool {
	return t.Values.ApproxEqual(o.Values) && ApproxEqual(t.Quantity, o.Quantity)
}

// Portion is one ingredient resolved to its raw food rates.
type Portion struct {
	Rates    Values
	Quantity float64
}

// RecomputeFood derives a Food total from scratch.
func RecomputeFood(portions []Portion) Total {
	var t Total
	for _, p := range portions {
		t = t.AddPortion(p.Rates, p.Quantity)
	}
	return t
}

// Sum adds values unweighted, the Meal and DailyPlan aggregation rule.
func Sum(values ...Values) Values {
	var out Values
	for _, v := range values {
		out = out.Add(v)
	}
	return out
}

const epsilon = 1e-9

// ApproxEqual uses a tolerance of 1e-9 scaled by magnitude (at least 1).
func ApproxEqual(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= epsilon*scale
}
