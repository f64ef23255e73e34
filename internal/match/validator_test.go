package match

import (
	"testing"

	"organizer/internal/media"
)

func TestClassifyExact(t *testing.T) {
	cand := Candidate{Metadata: media.CandidateMetadata{TitleLatin: "Avatar", Year: 2009}}
	record := media.LookupRecord{OriginalTitle: "Avatar", LocalizedTitle: "Avatar", Year: 2009}
	score := Score(cand, record)
	if got := Classify(cand, record, score); got != media.MatchExact {
		t.Fatalf("expected Exact, got %v", got)
	}
}

func TestClassifyHigh(t *testing.T) {
	cand := Candidate{Metadata: media.CandidateMetadata{TitleLatin: "The Avengers Endgame", Year: 2019}}
	record := media.LookupRecord{OriginalTitle: "Avengers: Endgame", LocalizedTitle: "Avengers: Endgame", Year: 2018}
	score := Score(cand, record)
	got := Classify(cand, record, score)
	if got != media.MatchHigh && got != media.MatchExact {
		t.Fatalf("expected High or better for a close fuzzy title with year+1, got %v", got)
	}
}

func TestClassifyLowWhenNoTitle(t *testing.T) {
	cand := Candidate{Metadata: media.CandidateMetadata{Year: 2009}}
	record := media.LookupRecord{OriginalTitle: "Completely Unrelated Title", Year: 1975}
	score := Score(cand, record)
	if got := Classify(cand, record, score); got != media.MatchLow {
		t.Fatalf("expected Low for a year-only, title-less mismatch, got %v", got)
	}
}

func TestBestNoResultsIsNoMatch(t *testing.T) {
	result := Best(Candidate{Metadata: media.CandidateMetadata{TitleLatin: "Anything"}}, nil)
	if result.Quality != media.MatchNoMatch || result.Matched {
		t.Fatalf("expected NoMatch for empty result set, got %+v", result)
	}
}

func TestBestTieBreakPrefersHigherVoteCount(t *testing.T) {
	cand := Candidate{Metadata: media.CandidateMetadata{TitleLatin: "Animal Farm"}}
	records := []media.LookupRecord{
		{TMDBID: 1, OriginalTitle: "Animal Farm", VoteCount: 10, Year: 1954},
		{TMDBID: 2, OriginalTitle: "Animal Farm", VoteCount: 500, Year: 1999},
	}
	result := Best(cand, records)
	if result.Record.TMDBID != 2 {
		t.Fatalf("expected the higher vote-count record (id 2) to win the tie, got id %d", result.Record.TMDBID)
	}
}

func TestBestTieBreakPrefersOlderYearWhenVotesEqual(t *testing.T) {
	cand := Candidate{Metadata: media.CandidateMetadata{TitleLatin: "Animal Farm"}}
	records := []media.LookupRecord{
		{TMDBID: 1, OriginalTitle: "Animal Farm", VoteCount: 100, Year: 1999},
		{TMDBID: 2, OriginalTitle: "Animal Farm", VoteCount: 100, Year: 1954},
	}
	result := Best(cand, records)
	if result.Record.TMDBID != 2 {
		t.Fatalf("expected the older release (id 2, 1954) to win the tie, got id %d", result.Record.TMDBID)
	}
}

func TestIntersectionBonusRaisesScore(t *testing.T) {
	base := Candidate{Metadata: media.CandidateMetadata{TitleLatin: "Nigehaji", Year: 2016}}
	intersecting := Candidate{Metadata: base.Metadata, Intersects: true}
	record := media.LookupRecord{OriginalTitle: "Nigehaji", Year: 2016}

	if Score(intersecting, record) <= Score(base, record) {
		t.Fatal("expected the intersection bonus to strictly raise the score")
	}
}

func TestAcceptPolicy(t *testing.T) {
	if !Accept(media.MatchExact, false) {
		t.Fatal("Exact should always be accepted")
	}
	if !Accept(media.MatchHigh, false) {
		t.Fatal("High should always be accepted")
	}
	if Accept(media.MatchMedium, false) {
		t.Fatal("Medium should be rejected without opt-in")
	}
	if !Accept(media.MatchMedium, true) {
		t.Fatal("Medium should be accepted with opt-in")
	}
	if Accept(media.MatchLow, true) {
		t.Fatal("Low should never be accepted, opt-in or not")
	}
}
