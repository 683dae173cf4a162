// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
)

// ExampleDecoder_Decode_errorHandling shows the sentinel for non-AIFF input.
func ExampleDecoder_Decode_errorHandling() {
	_, err := aiff.Decoder{}.Decode(bytes.NewReader([]byte("not aiff")))
	if errors.Is(err, aiff.ErrNotAiffFile) {
		fmt.Println("rejected:", err)
	}
	// Output:
	// rejected: not an AIFF file
}

// ExampleDecoder_Decode_registry registers the decoder under its usual
// extensions.
func ExampleDecoder_Decode_registry() {
	reg := audio.NewRegistry()
	reg.Register("aiff", aiff.Decoder{})
	reg.Register(".AIF", aiff.Decoder{})

	_, ok := reg.ForPath("sounds/door.aif")
	fmt.Println(ok)
	// Output:
	// true
}
