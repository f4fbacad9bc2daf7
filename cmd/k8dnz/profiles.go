package main

import (
	"fmt"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/fixedturn"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/recipe"
	"github.com/Y3LLOWVESTS/K8DNZ/pkg/k8dnz"
)

// buildRecipe constructs the recipe for encode/sim's --profile flag.
// "tuned" favors a wide, slowly-drifting orbit pair that escapes lockstep
// quickly; "baseline" is a plain reference configuration with no attempt
// at tuning the escape rate.
func buildRecipe(profile string, mode recipe.Mode, maxTicks uint64) (*recipe.Recipe, error) {
	var r recipe.Recipe
	switch profile {
	case "tuned", "":
		r = recipe.Recipe{
			Version:       1,
			OrbitA:        recipe.OrbitState{Phase: 0, Omega: fixedturn.FromFraction(97, 1_000_003)},
			OrbitC:        recipe.OrbitState{Phase: 0, Omega: fixedturn.FromFraction(131, 1_000_003)},
			Epsilon:       fixedturn.FromFraction(1, 20_000),
			AxialStep:     fixedturn.FromFraction(1, 32),
			LockstepOmega: fixedturn.FromFraction(3, 97),
			FieldSeed:     0x9E3779B97F4A7C15,
			Clamp:         recipe.Clamp{Lo: -128, Hi: 127},
			Quant:         recipe.Quant{Bins: 16, Shift: 0},
			Mode:          mode,
			MaxTicksCap:   maxTicks,
		}
	case "baseline":
		r = recipe.Recipe{
			Version:       1,
			OrbitA:        recipe.OrbitState{Phase: 0, Omega: fixedturn.FromFraction(1, 10_007)},
			OrbitC:        recipe.OrbitState{Phase: 0, Omega: fixedturn.FromFraction(1, 9_973)},
			Epsilon:       fixedturn.FromFraction(1, 4_096),
			AxialStep:     fixedturn.FromFraction(1, 16),
			LockstepOmega: fixedturn.FromFraction(1, 64),
			FieldSeed:     0xBF58476D1CE4E5B9,
			Clamp:         recipe.Clamp{Lo: -128, Hi: 127},
			Quant:         recipe.Quant{Bins: 16, Shift: 0},
			Mode:          mode,
			MaxTicksCap:   maxTicks,
		}
	default:
		return nil, fmt.Errorf("unknown profile %q (want tuned or baseline)", profile)
	}
	return k8dnz.NewRecipe(r)
}
