package entry

import "errors"

// ErrStructural reports input whose shape violates the assumed record
// layout. Record boundaries cannot be trusted after one, so callers abort.
var ErrStructural = errors.New("structural input error")
