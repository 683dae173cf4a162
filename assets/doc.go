// SPDX-License-Identifier: EPL-2.0

// Package assets loads audio files into memory for the mixer.
//
// A Store decodes each file once with the decoder registered for its
// extension (falling back to the file header), converts it to the output
// format of the playback backend and keeps it under a name:
//
//	store := assets.NewStore(nil, audio.Format{SampleRate: 44100, Channels: 2})
//	jump, err := store.Load("jump", "sfx/jump.wav", 0.8)
//	if err != nil {
//	    return err // errors.Is(err, assets.ErrAssetNotFound) ...
//	}
//	m.PlaySound(mixer.SFX, jump, 1)
//
// LoadAll decodes many files in parallel. Watch reloads files edited while
// the game runs.
package assets
