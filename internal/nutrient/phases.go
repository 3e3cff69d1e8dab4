package nutrient

import "github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/domain"

// PhaseTargets is the built-in feeding table: one target profile per growth
// stage, in mg/L. User-defined week schedules resolve to the same Target shape
// and replace these; callers treat each entry as an independent snapshot.
func PhaseTargets() []domain.Target {
	return []domain.Target{
		{
			Name: "seedling",
			Profile: domain.Profile{
				N: 80, P: 30, K: 90, Ca: 60, Mg: 25, S: 35,
				Fe: 1.5, Mn: 0.3, Zn: 0.2, Cu: 0.05, B: 0.3, Mo: 0.05,
			},
		},
		{
			Name: "vegetative",
			Profile: domain.Profile{
				N: 150, P: 40, K: 160, Ca: 120, Mg: 40, S: 55,
				Fe: 2.5, Mn: 0.55, Zn: 0.33, Cu: 0.05, B: 0.5, Mo: 0.05,
			},
		},
		{
			Name: "flowering",
			Profile: domain.Profile{
				N: 120, P: 60, K: 220, Ca: 120, Mg: 50, S: 70,
				Fe: 2.0, Mn: 0.55, Zn: 0.33, Cu: 0.05, B: 0.5, Mo: 0.05,
			},
		},
		{
			Name: "ripening",
			Profile: domain.Profile{
				N: 60, P: 50, K: 180, Ca: 90, Mg: 40, S: 60,
				Fe: 1.5, Mn: 0.4, Zn: 0.25, Cu: 0.05, B: 0.4, Mo: 0.05,
			},
		},
	}
}

// PhaseTarget looks up a built-in phase by name.
func PhaseTarget(name string) (domain.Target, bool) {
	for _, t := range PhaseTargets() {
		if t.Name == name {
			return t, true
		}
	}
	return domain.Target{}, false
}
