package match

import (
	"organizer/internal/media"
	"organizer/internal/textnorm"
)

// mediumThreshold is the fixed similarity floor for Medium-quality
// matches.
const mediumThreshold = 0.70
const highThreshold = 0.85

// Candidate wraps the evidence the validator scores a LookupRecord
// against. Intersects reports whether this record's TMDB id appeared in
// both a CJK-script and a Latin-script search for the same file.
type Candidate struct {
	Metadata   media.CandidateMetadata
	Intersects bool
}

// Score computes the composite score for one (candidate, record)
// pair: year match (+2/+1/0), best-of title similarity, the intersection
// bonus (+1), and the country-consistency bonus (+0.5).
func Score(c Candidate, record media.LookupRecord) float64 {
	score := yearScore(c.Metadata.Year, record.Year)
	score += titleSimilarity(c.Metadata, record)
	if c.Intersects {
		score++
	}
	if countryConsistent(c.Metadata, record) {
		score += 0.5
	}
	return score
}

func yearScore(candidateYear, recordYear int) float64 {
	if candidateYear == 0 || recordYear == 0 {
		return 0
	}
	diff := candidateYear - recordYear
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 2
	case diff == 1:
		return 1
	default:
		return 0
	}
}

// titleSimilarity is the best-of comparison: CJK candidate title against
// the record's localized title, and Latin candidate title against the
// record's original title.
func titleSimilarity(cand media.CandidateMetadata, record media.LookupRecord) float64 {
	best := 0.0
	if cand.TitleCJK != "" {
		if s := textnorm.Similarity(cand.TitleCJK, record.LocalizedTitle); s > best {
			best = s
		}
	}
	if cand.TitleLatin != "" {
		if s := textnorm.Similarity(cand.TitleLatin, record.OriginalTitle); s > best {
			best = s
		}
		if s := textnorm.Similarity(cand.TitleLatin, record.LocalizedTitle); s > best {
			best = s
		}
	}
	return best
}

func countryConsistent(cand media.CandidateMetadata, record media.LookupRecord) bool {
	if record.OriginCountry == "" {
		return false
	}
	hasCJK := textnorm.ContainsCJK(cand.TitleCJK)
	cjkCountry := isCJKOriginCountry(record.OriginCountry)
	if hasCJK {
		return cjkCountry
	}
	if cand.TitleLatin != "" {
		return !cjkCountry
	}
	return false
}

var cjkCountryCodes = map[string]bool{
	"CN": true, "TW": true, "HK": true, "JP": true, "KR": true,
}

func isCJKOriginCountry(code string) bool {
	return cjkCountryCodes[code]
}

// exactTitleMatch reports whether the candidate's surviving title, after
// text normalization, is identical to the record's original or localized
// title.
func exactTitleMatch(cand media.CandidateMetadata, record media.LookupRecord) bool {
	for _, candTitle := range []string{cand.TitleCJK, cand.TitleLatin} {
		if candTitle == "" {
			continue
		}
		for _, recTitle := range []string{record.OriginalTitle, record.LocalizedTitle} {
			if recTitle == "" {
				continue
			}
			if textnorm.Fold(candTitle) == textnorm.Fold(recTitle) {
				return true
			}
		}
	}
	return false
}

// Classify maps a (candidate, record, score) triple to a MatchQuality:
// Exact requires an identical normalized title and exact year;
// High requires similarity >= 0.85 and year within +/-1; Medium requires
// similarity >= 0.70 or year within +/-1; anything else with a record is
// Low.
func Classify(c Candidate, record media.LookupRecord, score float64) media.MatchQuality {
	yearDiff, yearKnown := yearDelta(c.Metadata.Year, record.Year)
	sim := titleSimilarity(c.Metadata, record)

	if exactTitleMatch(c.Metadata, record) && yearKnown && yearDiff == 0 {
		return media.MatchExact
	}
	if sim >= highThreshold && yearKnown && yearDiff <= 1 {
		return media.MatchHigh
	}
	if sim >= mediumThreshold || (yearKnown && yearDiff <= 1) {
		return media.MatchMedium
	}
	return media.MatchLow
}

func yearDelta(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d, true
}

// Result is the outcome of validating a candidate against a set of
// lookup-result records: the chosen record (if any), its quality, and the
// score it won on.
type Result struct {
	Record  media.LookupRecord
	Quality media.MatchQuality
	Score   float64
	Matched bool
}

// Best scores every record in records against c and returns the
// highest-scoring one. Ties go to the higher vote count, then the older
// release year, preferring canonical releases over remakes.
func Best(c Candidate, records []media.LookupRecord) Result {
	if len(records) == 0 {
		return Result{Quality: media.MatchNoMatch}
	}

	var winner media.LookupRecord
	bestScore := -1.0
	found := false
	for _, record := range records {
		score := Score(c, record)
		switch {
		case !found || score > bestScore:
			winner, bestScore, found = record, score, true
		case score == bestScore:
			if betterTieBreak(record, winner) {
				winner = record
			}
		}
	}

	quality := Classify(c, winner, bestScore)
	return Result{Record: winner, Quality: quality, Score: bestScore, Matched: quality != media.MatchNoMatch}
}

// betterTieBreak reports whether candidate should replace current as the
// tie-break winner: higher vote-count wins, then older release year.
func betterTieBreak(candidate, current media.LookupRecord) bool {
	if candidate.VoteCount != current.VoteCount {
		return candidate.VoteCount > current.VoteCount
	}
	if candidate.Year == 0 || current.Year == 0 {
		return false
	}
	return candidate.Year < current.Year
}

// Accept applies the default-vs-opt-in processing policy:
// Exact/High always qualify; Medium only when allowMedium is set.
func Accept(quality media.MatchQuality, allowMedium bool) bool {
	return quality.AcceptableWithMediumOptIn(allowMedium)
}
