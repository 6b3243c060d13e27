package wikidex

import "errors"

// Sentinel errors for the conditions spec'd as distinct error kinds.
// Malformed XML and I/O failures are wrapped ad hoc with %w at their call
// site instead of being sentinels, since their diagnostic value comes from
// the underlying error, not from being distinguishable by callers.
var (
	// ErrCorruptSegment is returned by the merger when a segment line is
	// missing its ": " separator or its posting bracket.
	ErrCorruptSegment = errors.New("wikidex: corrupt segment line")

	// ErrMissingShard is returned at search time when a shard file named
	// by breakWords.txt routing is absent from the index directory. A
	// missing per-term offset is NOT this error; it is treated as an
	// empty posting list.
	ErrMissingShard = errors.New("wikidex: missing shard file")

	// ErrMissingBreakWords is returned when breakWords.txt cannot be
	// opened at search startup.
	ErrMissingBreakWords = errors.New("wikidex: missing breakWords.txt")
)
