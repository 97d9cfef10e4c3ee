package borsh

import (
	"github.com/eluv-io/errors-go"
)

// K defines the kinds of errors raised by the codec. Use errors.IsKind to
// test for them:
//
//	if errors.IsKind(borsh.K.Range, err) { ... }
var K = struct {
	Type      errors.Kind // value has the wrong shape for the descriptor
	Range     errors.Kind // numeric value not representable in the declared width
	Value     errors.Kind // structural violation: lengths, key sets, padding
	Truncated errors.Kind // not enough bytes left to satisfy a read
	Lookup    errors.Kind // record field missing from the input mapping
}{
	Type:      errors.Kind("type mismatch"),
	Range:     errors.Kind("out of range"),
	Value:     errors.Kind("invalid value"),
	Truncated: errors.Kind("truncated input"),
	Lookup:    errors.Kind("missing key"),
}
