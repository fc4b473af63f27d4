package youtube

import (
	"yt-ingest/models"
)

// PickTrack selects a caption track by language policy:
//
//  1. Exact match for the caller's language hint, manual before generated.
//  2. Any manually authored track, in priority-language order first.
//  3. Auto-generated tracks in priority-language order.
//  4. Any remaining track.
func PickTrack(tracks []models.CaptionTrack, hint string, priority []string) (models.CaptionTrack, bool) {
	if len(tracks) == 0 {
		return models.CaptionTrack{}, false
	}

	if hint != "" {
		if t, ok := findTrack(tracks, hint, false); ok {
			return t, true
		}
		if t, ok := findTrack(tracks, hint, true); ok {
			return t, true
		}
	}

	for _, lang := range priority {
		if t, ok := findTrack(tracks, lang, false); ok {
			return t, true
		}
	}
	for _, t := range tracks {
		if !t.IsGenerated {
			return t, true
		}
	}

	for _, lang := range priority {
		if t, ok := findTrack(tracks, lang, true); ok {
			return t, true
		}
	}

	return tracks[0], true
}

func findTrack(tracks []models.CaptionTrack, lang string, generated bool) (models.CaptionTrack, bool) {
	for _, t := range tracks {
		if t.Lang == lang && t.IsGenerated == generated {
			return t, true
		}
	}
	return models.CaptionTrack{}, false
}
