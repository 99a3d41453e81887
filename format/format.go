// Package format renders match results produced by the peg engine.
package format

import (
	"encoding"

	"github.com/dhamidi/pegmatch/peg"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(result *peg.Result) error
}
