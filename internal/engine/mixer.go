package engine

import "github.com/icco/groovebox"

// EffectiveGain resolves a track's audible volume from its own volume, mute,
// and solo state against the full track snapshot. Mute always wins; when any
// track is soloed, every non-solo track is silent. Pure and recomputed fresh
// on each play pass.
func EffectiveGain(track groovebox.Track, all []groovebox.Track) float64 {
	if track.Muted {
		return 0
	}
	if !track.Solo && anySolo(all) {
		return 0
	}
	return track.Volume
}

func anySolo(tracks []groovebox.Track) bool {
	for _, t := range tracks {
		if t.Solo {
			return true
		}
	}
	return false
}
