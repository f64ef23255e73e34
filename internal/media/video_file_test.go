package media

import (
	"testing"
	"time"
)

var timeZero = time.Time{}

func TestNewVideoFileSampleDetection(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantSamp bool
		wantExtr bool
	}{
		{"sample in filename", "/library/Movie (2020)/movie.sample.mkv", true, false},
		{"sample dir", "/library/Movie (2020)/Sample/movie.mkv", true, false},
		{"extras dir", "/library/Movie (2020)/Extras/trailer.mkv", false, true},
		{"behind the scenes", "/library/Movie (2020)/Behind The Scenes/bts.mkv", false, true},
		{"suffix extras", "/library/Movie (2020)/Movie-extras/clip.mkv", false, true},
		{"plain file", "/library/Movie (2020)/movie.mkv", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vf := NewVideoFile(tt.path, 0, timeZero)
			if vf.IsSample != tt.wantSamp {
				t.Errorf("IsSample = %v, want %v", vf.IsSample, tt.wantSamp)
			}
			if vf.IsExtra != tt.wantExtr {
				t.Errorf("IsExtra = %v, want %v", vf.IsExtra, tt.wantExtr)
			}
			if vf.Skippable() != (tt.wantSamp || tt.wantExtr) {
				t.Errorf("Skippable() mismatch")
			}
		})
	}
}

func TestVideoFileAccessors(t *testing.T) {
	vf := NewVideoFile("/library/Movie (2020)/Movie.2020.1080p.mkv", 100, timeZero)
	if vf.Filename() != "Movie.2020.1080p.mkv" {
		t.Errorf("Filename() = %q", vf.Filename())
	}
	if vf.Ext() != "mkv" {
		t.Errorf("Ext() = %q", vf.Ext())
	}
	if vf.ParentDir() != "/library/Movie (2020)" {
		t.Errorf("ParentDir() = %q", vf.ParentDir())
	}
}
