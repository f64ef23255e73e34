// Package parser implements the Name/Path Parser: a pure, deterministic
// function over a file path that tokenizes the filename and classifies
// every ancestor directory, recognizing the "already organized" fast-path
// marker along the way.
//
// Directory classification itself lives in internal/media
// (ClassifyDirectory, IsOrganizedMovieMarker, IsOrganizedTVEpisodeMarker);
// this package layers filename tokenization and the per-path evidence
// merge on top of it.
package parser
