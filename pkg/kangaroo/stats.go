package kangaroo

import "github.com/dlpsolve/kangaroo/internal/engine"

// Stats mirrors engine.Stats verbatim: it is the public snapshot shape,
// exposed outside the internal packages so callers need not import
// internal/engine directly.
type Stats = engine.Stats
