package assistant

import "errors"

// Sentinel errors for run-fatal failure classes
var (
	// ErrUnsupportedInputKind indicates an input kind outside text/image/pdf
	ErrUnsupportedInputKind = errors.New("unsupported input kind")

	// ErrDecomposition indicates the decomposition collaborator call failed
	ErrDecomposition = errors.New("query decomposition failed")

	// ErrSynthesis indicates the synthesis collaborator call failed
	ErrSynthesis = errors.New("response synthesis failed")
)
