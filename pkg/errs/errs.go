// Package errs defines the canonical sentinel errors and CLI exit-code
// mapping: BadFormat, StreamExhausted, ReconstructShort,
// DegenerateRecipe, ObjectiveDegraded, ParamMismatch.
// Grouped by concern the way the teacher groups its sentinels by
// subsystem (format / slot / security / execution).
package errs

import (
	"errors"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/cadence"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/container"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/timemap"
	"github.com/Y3LLOWVESTS/K8DNZ/pkg/k8dnz"
)

var (
	// Format errors — container magic/CRC/length failures.
	ErrBadFormat = errors.New("errs: bad container format")

	// Engine/fitter errors.
	ErrStreamExhausted   = errors.New("errs: stream exhausted before requested index")
	ErrReconstructShort  = errors.New("errs: reconstruct max_ticks too small for recorded timemap")
	ErrDegenerateRecipe  = errors.New("errs: recipe produces no emissions or only identical tokens within the probe window")
	ErrObjectiveDegraded = errors.New("errs: fitter returned best-so-far, not an optimum")

	// CLI/parameter errors.
	ErrParamMismatch = errors.New("errs: parameters do not match the recorded recipe/timemap")
)

// formatErrors lists every internal/container sentinel that maps to
// ErrBadFormat, kept here rather than in internal/container so that
// leaf package stays free of a dependency on this one.
var formatErrors = []error{
	container.ErrArkBadMagic, container.ErrArkChecksum, container.ErrArkTooShort, container.ErrArkLengthField,
	container.ErrTM1BadMagic, container.ErrTM1Checksum, container.ErrTM1TooShort, container.ErrTM1BadVarint, container.ErrTM1NotSorted,
	container.ErrBFnBadMagic, container.ErrBFnChecksum, container.ErrBFnTooShort, container.ErrBFnBadBitWidth,
	container.ErrK8P2BadMagic, container.ErrK8P2BadVersion, container.ErrK8P2TooShort,
}

// Classify maps any error produced by this module's internal packages to
// one of the canonical sentinels above, for exit-code purposes. Errors
// it doesn't recognize are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, fe := range formatErrors {
		if errors.Is(err, fe) {
			return ErrBadFormat
		}
	}
	switch {
	case errors.Is(err, cadence.ErrStreamExhausted), errors.Is(err, timemap.ErrStreamExhausted):
		return ErrStreamExhausted
	case errors.Is(err, timemap.ErrReconstructShort):
		return ErrReconstructShort
	case errors.Is(err, cadence.ErrDegenerateRecipe):
		return ErrDegenerateRecipe
	case errors.Is(err, k8dnz.ErrBitAlignedMapping):
		return ErrParamMismatch
	default:
		return err
	}
}

// ExitCode maps a (possibly already-classified) error to the process
// exit code: 0 success, 2 user/arg error, 3 stream exhausted, 4
// reconstruct short, 5 CRC/magic mismatch, 6 degenerate recipe, 1 other.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	classified := Classify(err)
	switch {
	case errors.Is(classified, ErrParamMismatch):
		return 2
	case errors.Is(classified, ErrStreamExhausted):
		return 3
	case errors.Is(classified, ErrReconstructShort):
		return 4
	case errors.Is(classified, ErrBadFormat):
		return 5
	case errors.Is(classified, ErrDegenerateRecipe):
		return 6
	default:
		return 1
	}
}
