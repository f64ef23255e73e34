package candidate

import (
	"context"

	"organizer/internal/media"
)

// ShowRecognizer reports whether the external database recognizes a given
// TMDB show id. tmdb.Client satisfies it via GetTVDetails, treating
// services.ErrNotFound on a 404 as "not recognized".
type ShowRecognizer interface {
	Recognized(ctx context.Context, tmdbID int64) bool
}

// ResolveShowID implements the TV-show parent-id fallback:
// when a season directory's embedded id is not recognized by the external
// database, walk ancestors upward until a recognized show-level id is
// found, preserving the season/episode extracted locally.
func ResolveShowID(ctx context.Context, cand media.CandidateMetadata, ancestors []media.DirectoryRole, recognizer ShowRecognizer) media.CandidateMetadata {
	if recognizer == nil || cand.IDs.Empty() || cand.IDs.TMDBID == 0 {
		return cand
	}
	if recognizer.Recognized(ctx, cand.IDs.TMDBID) {
		return cand
	}
	for _, ancestor := range ancestors {
		if ancestor.Kind != media.RoleOrganizedDir || ancestor.IDs.Empty() {
			continue
		}
		if recognizer.Recognized(ctx, ancestor.IDs.TMDBID) {
			cand.IDs = ancestor.IDs
			return cand
		}
	}
	return cand
}
