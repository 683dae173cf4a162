// SPDX-License-Identifier: EPL-2.0

package audio

import "math"

// Convert returns c in format f. The original clip is never modified; when
// c already matches f it is returned as is.
func Convert(c *Clip, f Format) (*Clip, error) {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return nil, ErrInvalidFormat
	}

	out := c
	// Remix before resampling when reducing channels so there is less to
	// interpolate, after when adding them.
	if f.Channels < out.Channels {
		out = Remix(out, f.Channels)
	}
	if f.SampleRate != out.SampleRate {
		out = Resample(out, f.SampleRate)
	}
	if f.Channels > out.Channels {
		out = Remix(out, f.Channels)
	}

	return out, nil
}

// Resample converts c to dstRate using Catmull-Rom cubic interpolation.
// When downsampling, a one-pole low-pass filter runs over the source first
// to reduce aliasing.
func Resample(c *Clip, dstRate int) *Clip {
	if dstRate == c.SampleRate || c.Frames() == 0 {
		return c
	}

	channels := c.Channels
	srcFrames := c.Frames()
	ratio := float64(c.SampleRate) / float64(dstRate)
	dstFrames := int(math.Floor(float64(srcFrames) / ratio))
	if dstFrames == 0 {
		dstFrames = 1
	}

	src := c.Samples
	if ratio > 1.0 {
		src = lowPass(c.Samples, channels, 0.5)
	}

	// frame returns sample ch of frame i, clamping at the clip edges.
	frame := func(i, ch int) float32 {
		if i < 0 {
			i = 0
		} else if i >= srcFrames {
			i = srcFrames - 1
		}
		return src[i*channels+ch]
	}

	out := make([]float32, dstFrames*channels)
	for f := range dstFrames {
		pos := float64(f) * ratio
		i := int(pos)
		alpha := float32(pos - float64(i))

		for ch := range channels {
			out[f*channels+ch] = cubic(
				frame(i-1, ch), frame(i, ch), frame(i+1, ch), frame(i+2, ch), alpha,
			)
		}
	}

	return &Clip{
		Name:       c.Name,
		Samples:    out,
		SampleRate: dstRate,
		Channels:   channels,
	}
}

// lowPass applies y[n] = alpha*x[n] + (1-alpha)*y[n-1] per channel.
func lowPass(in []float32, channels int, alpha float32) []float32 {
	out := make([]float32, len(in))
	state := make([]float32, channels)
	copy(state, in[:min(channels, len(in))])

	for i, x := range in {
		ch := i % channels
		state[ch] = alpha*x + (1-alpha)*state[ch]
		out[i] = state[ch]
	}
	return out
}

// Remix converts c to the given channel count. Going down to mono averages
// all channels; going up from mono duplicates the single channel; any other
// combination averages to mono and spreads the result.
func Remix(c *Clip, channels int) *Clip {
	if channels == c.Channels || channels <= 0 {
		return c
	}

	frames := c.Frames()
	out := make([]float32, frames*channels)

	switch {
	case c.Channels == 1:
		for f := range frames {
			v := c.Samples[f]
			for ch := range channels {
				out[f*channels+ch] = v
			}
		}
	case c.Channels == 2 && channels == 1:
		for f := range frames {
			idx := f << 1
			out[f] = (c.Samples[idx] + c.Samples[idx+1]) * 0.5
		}
	default:
		inv := float32(1.0) / float32(c.Channels)
		for f := range frames {
			sum := float32(0)
			base := f * c.Channels
			for ch := range c.Channels {
				sum += c.Samples[base+ch]
			}
			mono := sum * inv
			for ch := range channels {
				out[f*channels+ch] = mono
			}
		}
	}

	return &Clip{
		Name:       c.Name,
		Samples:    out,
		SampleRate: c.SampleRate,
		Channels:   channels,
	}
}

// cubic performs Catmull-Rom interpolation between y1 and y2 at fractional
// position x in [0,1].
func cubic(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*x*x*x + a1*x*x + a2*x + a3
}
