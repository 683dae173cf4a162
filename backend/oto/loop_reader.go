// SPDX-License-Identifier: EPL-2.0

package oto

import "io"

// loopReader replays data. loops is -1 for forever, otherwise the number of
// extra passes left.
type loopReader struct {
	data  []byte
	pos   int
	loops int
}

func (r *loopReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}

	if r.pos >= len(r.data) {
		if r.loops == 0 {
			return 0, io.EOF
		}
		if r.loops > 0 {
			r.loops--
		}
		r.pos = 0
	}

	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
