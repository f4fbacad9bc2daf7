package cadence

import "errors"

// Engine error sentinels.
var (
	ErrStreamExhausted  = errors.New("stream exhausted before requested index")
	ErrDegenerateRecipe = errors.New("degenerate recipe: no entropy in probe window")
)
