package domain

import "strings"

// NumNutrients is the size of the closed nutrient symbol set.
const NumNutrients = 12

// Symbols lists the supported nutrient symbols in canonical order. The order
// matches Profile.Values and is the iteration order everywhere in the engine.
var Symbols = [NumNutrients]string{"N", "P", "K", "Ca", "Mg", "S", "Fe", "Mn", "Zn", "Cu", "B", "Mo"}

var symbolIndex = func() map[string]int {
	m := make(map[string]int, NumNutrients)
	for i, s := range Symbols {
		m[s] = i
	}
	return m
}()

// SymbolIndex returns the canonical index of a nutrient symbol.
func SymbolIndex(symbol string) (int, bool) {
	i, ok := symbolIndex[symbol]
	return i, ok
}

// Profile holds one concentration per nutrient symbol, in mg/L (ppm).
// It is a plain value type: computations return fresh profiles and never
// mutate one in place.
type Profile struct {
	N  float64 `json:"n"`
	P  float64 `json:"p"`
	K  float64 `json:"k"`
	Ca float64 `json:"ca"`
	Mg float64 `json:"mg"`
	S  float64 `json:"s"`
	Fe float64 `json:"fe"`
	Mn float64 `json:"mn"`
	Zn float64 `json:"zn"`
	Cu float64 `json:"cu"`
	B  float64 `json:"b"`
	Mo float64 `json:"mo"`
}

// Values returns the concentrations in canonical symbol order.
func (p Profile) Values() [NumNutrients]float64 {
	return [NumNutrients]float64{p.N, p.P, p.K, p.Ca, p.Mg, p.S, p.Fe, p.Mn, p.Zn, p.Cu, p.B, p.Mo}
}

// FromValues builds a profile from concentrations in canonical symbol order.
func FromValues(v [NumNutrients]float64) Profile {
	return Profile{
		N: v[0], P: v[1], K: v[2], Ca: v[3], Mg: v[4], S: v[5],
		Fe: v[6], Mn: v[7], Zn: v[8], Cu: v[9], B: v[10], Mo: v[11],
	}
}

// Get returns the concentration for a symbol, zero for unknown symbols.
func (p Profile) Get(symbol string) float64 {
	i, ok := symbolIndex[symbol]
	if !ok {
		return 0
	}
	return p.Values()[i]
}

// Add returns the element-wise sum of two profiles.
func (p Profile) Add(q Profile) Profile {
	a, b := p.Values(), q.Values()
	for i := range a {
		a[i] += b[i]
	}
	return FromValues(a)
}

// Scale returns the profile with every concentration multiplied by f.
func (p Profile) Scale(f float64) Profile {
	v := p.Values()
	for i := range v {
		v[i] *= f
	}
	return FromValues(v)
}

// IsZero reports whether every concentration is zero.
func (p Profile) IsZero() bool {
	return p == Profile{}
}

// Fertilizer is the static composition of one product. Composition holds the
// concentration added to the final solution per one unit of dose (mg/L per
// mL or g, depending on Unit). ECPerUnit covers conductivity from ballast
// salts outside the symbol set (mS/cm per unit dose); zero for most products.
type Fertilizer struct {
	Name        string  `json:"name"`
	Unit        string  `json:"unit"` // "ml" or "g"
	Composition Profile `json:"composition"`
	ECPerUnit   float64 `json:"ec_per_unit,omitempty"`
}

// Brand returns the leading token of the product name, by convention the
// brand used for catalog filtering.
func (f Fertilizer) Brand() string {
	fields := strings.Fields(f.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Catalog is an ordered, read-only list of fertilizer products. Order is the
// tie-break order for the solver, so identical catalogs give identical
// suggestions.
type Catalog []Fertilizer

// Find returns the product with the given name.
func (c Catalog) Find(name string) (Fertilizer, bool) {
	for _, f := range c {
		if f.Name == name {
			return f, true
		}
	}
	return Fertilizer{}, false
}

// FilterBrand returns the products whose brand token matches, case-insensitive.
// An empty brand returns the catalog unchanged.
func (c Catalog) FilterBrand(brand string) Catalog {
	if strings.TrimSpace(brand) == "" {
		return c
	}
	var out Catalog
	for _, f := range c {
		if strings.EqualFold(f.Brand(), brand) {
			out = append(out, f)
		}
	}
	return out
}

// ProductDose pairs a product name with a chosen dose in the product's unit.
// A dose of zero contributes nothing.
type ProductDose struct {
	Product string  `json:"product"`
	Dose    float64 `json:"dose"`
}

// Water is the base analysis of the source water: concentrations before any
// fertilizer, plus the share (0-100%) of the final solution that is this
// water rather than a neutral RO baseline.
type Water struct {
	Profile      Profile `json:"profile"`
	SharePercent float64 `json:"share_percent"`
}

// Target is a desired nutrient profile, optionally with per-nutrient weights.
// A zero Weights profile means "use the solver defaults". Phase tables and
// user-defined week schedules both resolve to this shape.
type Target struct {
	Name    string  `json:"name,omitempty"`
	Profile Profile `json:"profile"`
	Weights Profile `json:"weights,omitempty"`
}

// Warning kinds emitted by the calculator.
const (
	WarnECHigh         = "ec_too_high"
	WarnECLow          = "ec_too_low"
	WarnRatioImbalance = "ratio_imbalance"
)

// Warning classifies a diagnostic finding on a computed solution. Presentation
// is the caller's concern; this is a kind/message pair only.
type Warning struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Solution is the result of one concentration computation: the elemental
// profile, the estimated conductivity in mS/cm, and zero or more warnings.
type Solution struct {
	Profile  Profile   `json:"profile"`
	EC       float64   `json:"ec"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Recipe is a user-saved dose list.
type Recipe struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Doses     []ProductDose `json:"doses"`
	CreatedAt string        `json:"created_at"`
}
