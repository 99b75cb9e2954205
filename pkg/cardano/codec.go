package cardano

import (
	"github.com/fxamacker/cbor/v2"
)

// encMode produces the canonical encoding every Encode* method emits. The
// wire format tolerates several encodings of the same value, so re-encoding
// a decoded entity is not guaranteed to be byte-identical to the input, but
// it always decodes back to an equal value.
var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em
}
