package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"organizer/internal/fsutil"
	"organizer/internal/media"
	"organizer/internal/services"
	"organizer/internal/synth"
)

// FileResolution is one source file's fully-resolved evidence, assembled by
// the caller from the parser through the name synthesizer before handing it to the
// Planner. The Planner itself never calls TMDB, ffprobe, or Ollama; it only
// orders and validates what it is given.
type FileResolution struct {
	Source        media.VideoFile
	Candidate     media.CandidateMetadata
	Record        media.LookupRecord
	Quality       media.MatchQuality
	Score         float64
	Probe         media.ProbeMetadata
	Target        synth.Target
	Matched       bool
	UnknownReason string

	// Subtitles are sibling subtitle files (loose or inside a subtitle
	// folder next to the video) that move with the video into its target
	// directory, preserving their layout relative to the video's own
	// directory.
	Subtitles []string
}

// idNamespace scopes the deterministic per-source-path item ids so the same
// tree replanned later produces the same ids.
var idNamespace = uuid.MustParse("5b4d7e4a-9b0a-4e7c-9c3a-9b4a8f0a5f11")

func itemID(sourcePath string) string {
	return uuid.NewMD5(idNamespace, []byte(sourcePath)).String()
}

// PathChecker abstracts filesystem existence checks so collision detection
// is testable without touching disk.
type PathChecker interface {
	Exists(path string) (bool, error)
}

type osPathChecker struct{}

func (osPathChecker) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// SourceHasher abstracts whole-file SHA-256 hashing so Move-operation
// construction is testable without touching disk.
type SourceHasher interface {
	SHA256(path string) (string, error)
}

type fileSourceHasher struct{}

func (fileSourceHasher) SHA256(path string) (string, error) {
	return fsutil.SHA256File(path)
}

// Builder aggregates FileResolutions into a Plan.
type Builder struct {
	checker PathChecker
	hasher  SourceHasher
}

// New constructs a Builder. A nil checker/hasher falls back to real
// filesystem access.
func New(checker PathChecker, hasher SourceHasher) *Builder {
	if checker == nil {
		checker = osPathChecker{}
	}
	if hasher == nil {
		hasher = fileSourceHasher{}
	}
	return &Builder{checker: checker, hasher: hasher}
}

// Build aggregates resolutions into a single Plan rooted at sourceRoot and
// targetRoot. It rejects the whole plan (returns an error, no partial Plan)
// the moment two items claim the same target path, or an item's target
// path collides with a pre-existing filesystem entry that the plan itself
// did not produce.
func (b *Builder) Build(kind media.Kind, sourceRoot, targetRoot string, resolutions []FileResolution) (*Plan, error) {
	plan := &Plan{
		Version:    "1.0",
		ID:         uuid.NewString(),
		CreatedAt:  time.Now(),
		MediaType:  kind,
		SourcePath: sourceRoot,
		TargetPath: targetRoot,
	}

	claimed := make(map[string]string) // target path -> claiming source path
	mkdirsDone := make(map[string]bool)

	for _, r := range resolutions {
		id := itemID(r.Source.Path)
		source := sourceDoc(r.Source)

		switch {
		case r.Source.Skippable():
			plan.Samples = append(plan.Samples, PlanItem{ID: id, Status: StatusSample, Source: source, Parsed: parsedDoc(r.Candidate)})
			continue

		case !r.Matched:
			plan.Unknown = append(plan.Unknown, PlanItem{
				ID:            id,
				Status:        StatusUnknown,
				Source:        source,
				Parsed:        parsedDoc(r.Candidate),
				UnknownReason: r.UnknownReason,
			})
			continue
		}

		ops, err := b.buildOperations(r, mkdirsDone)
		if err != nil {
			return nil, err
		}

		for _, op := range ops {
			target := opTargetPath(op)
			if target == "" {
				continue
			}
			if owner, ok := claimed[target]; ok && owner != r.Source.Path {
				return nil, services.Wrap(services.ErrConflict, "planner", "build",
					fmt.Sprintf("target path %q claimed by both %q and %q", target, owner, r.Source.Path), nil)
			}
			claimed[target] = r.Source.Path
		}

		if len(ops) == 0 {
			// Already organized: nothing pending, elide entirely.
			continue
		}

		probe := mediaInfoDoc(r.Probe)
		plan.Items = append(plan.Items, PlanItem{
			ID:         id,
			Status:     StatusReady,
			Source:     source,
			Parsed:     parsedDoc(r.Candidate),
			TMDB:       tmdbDoc(r),
			MediaInfo:  &probe,
			Target:     targetDoc(r.Target),
			Operations: ops,
		})
	}

	return plan, nil
}

// buildOperations constructs the ordered, collision-checked operation list
// for one Ready item: mkdirs (shallowest first, so the executor and
// rollback engine walk a valid prefix at every step), the video Move, the
// sibling-subtitle Moves, the NFO WriteFile, and poster Downloads. Steps whose target already exists
// and already matches the plan (same path the operation would produce) are
// omitted rather than re-applied, which is what makes re-planning an
// already-organized tree yield zero operations.
func (b *Builder) buildOperations(r FileResolution, mkdirsDone map[string]bool) ([]Operation, error) {
	var ops []Operation
	seq := 0
	nextSeq := func() int { seq++; return seq }

	for _, dir := range mkdirChain(r.Target.Dir) {
		if mkdirsDone[dir] {
			continue
		}
		exists, err := b.checker.Exists(dir)
		if err != nil {
			return nil, services.Wrap(services.ErrIntegrity, "planner", "stat", dir, err)
		}
		mkdirsDone[dir] = true
		if exists {
			continue
		}
		ops = append(ops, Mkdir(nextSeq(), dir))
	}

	if r.Target.FilePath != "" && r.Target.FilePath != r.Source.Path {
		exists, err := b.checker.Exists(r.Target.FilePath)
		if err != nil {
			return nil, services.Wrap(services.ErrIntegrity, "planner", "stat", r.Target.FilePath, err)
		}
		if exists {
			return nil, services.Wrap(services.ErrConflict, "planner", "build",
				fmt.Sprintf("target file %q already exists and was not produced by this plan", r.Target.FilePath), nil)
		}
		sum, err := b.hasher.SHA256(r.Source.Path)
		if err != nil {
			return nil, services.Wrap(services.ErrIntegrity, "planner", "hash", r.Source.Path, err)
		}
		ops = append(ops, Move(nextSeq(), r.Source.Path, r.Target.FilePath, sum))
	}

	subtitleOps, err := b.subtitleOperations(r, mkdirsDone, nextSeq)
	if err != nil {
		return nil, err
	}
	ops = append(ops, subtitleOps...)

	if r.Target.NFOPath != "" {
		exists, err := b.checker.Exists(r.Target.NFOPath)
		if err != nil {
			return nil, services.Wrap(services.ErrIntegrity, "planner", "stat", r.Target.NFOPath, err)
		}
		if !exists {
			ops = append(ops, WriteFile(nextSeq(), r.Target.NFOPath, r.Target.NFOContent))
		}
	}

	for url, path := range r.Target.Posters {
		exists, err := b.checker.Exists(path)
		if err != nil {
			return nil, services.Wrap(services.ErrIntegrity, "planner", "stat", path, err)
		}
		if !exists {
			ops = append(ops, Download(nextSeq(), url, path, 1024))
		}
	}

	return ops, nil
}

// subtitleOperations plans the sibling-subtitle moves: each attached
// subtitle lands in the item's target directory at the same path it held
// relative to the video's directory, with Mkdir steps for subtitle
// subfolders. Subtitles already sitting at their target (re-planning an
// organized tree) produce nothing.
func (b *Builder) subtitleOperations(r FileResolution, mkdirsDone map[string]bool, nextSeq func() int) ([]Operation, error) {
	if len(r.Subtitles) == 0 || r.Target.Dir == "" {
		return nil, nil
	}
	sourceDir := filepath.Dir(r.Source.Path)

	var ops []Operation
	for _, sub := range r.Subtitles {
		rel, err := filepath.Rel(sourceDir, sub)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		target := filepath.Join(r.Target.Dir, rel)
		if target == sub {
			continue
		}
		for _, dir := range mkdirChain(filepath.Dir(target)) {
			if mkdirsDone[dir] {
				continue
			}
			exists, err := b.checker.Exists(dir)
			if err != nil {
				return nil, services.Wrap(services.ErrIntegrity, "planner", "stat", dir, err)
			}
			mkdirsDone[dir] = true
			if exists {
				continue
			}
			ops = append(ops, Mkdir(nextSeq(), dir))
		}
		exists, err := b.checker.Exists(target)
		if err != nil {
			return nil, services.Wrap(services.ErrIntegrity, "planner", "stat", target, err)
		}
		if exists {
			return nil, services.Wrap(services.ErrConflict, "planner", "build",
				fmt.Sprintf("subtitle target %q already exists and was not produced by this plan", target), nil)
		}
		sum, err := b.hasher.SHA256(sub)
		if err != nil {
			return nil, services.Wrap(services.ErrIntegrity, "planner", "hash", sub, err)
		}
		ops = append(ops, Move(nextSeq(), sub, target, sum))
	}
	return ops, nil
}

// mkdirChain returns every ancestor of dir from shallowest to deepest,
// inclusive of dir itself, stopping above the filesystem root.
func mkdirChain(dir string) []string {
	if dir == "" {
		return nil
	}
	var chain []string
	for d := filepath.Clean(dir); d != "." && d != string(filepath.Separator); d = filepath.Dir(d) {
		chain = append(chain, d)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func opTargetPath(op Operation) string {
	switch op.Kind {
	case OpMove:
		return op.Dst
	case OpWrite, OpDownload, OpMkdir:
		return op.Path
	default:
		return ""
	}
}

func sourceDoc(v media.VideoFile) SourceDoc {
	return SourceDoc{Path: v.Path, Size: v.Size, ModifiedAt: v.ModifiedAt}
}

func parsedDoc(c media.CandidateMetadata) ParsedDoc {
	return ParsedDoc{
		TitleCJK:   c.TitleCJK,
		TitleLatin: c.TitleLatin,
		Year:       c.Year,
		Season:     c.Season,
		Episode:    c.Episode,
		Provenance: string(c.Provenance),
		Confidence: c.Confidence,
	}
}

func tmdbDoc(r FileResolution) *TMDBDoc {
	return &TMDBDoc{
		TMDBID:         r.Record.TMDBID,
		IMDbID:         r.Record.IMDbID,
		OriginalTitle:  r.Record.OriginalTitle,
		LocalizedTitle: r.Record.LocalizedTitle,
		Year:           r.Record.Year,
		MatchQuality:   string(r.Quality),
		Score:          r.Score,
	}
}

func mediaInfoDoc(p media.ProbeMetadata) MediaInfoDoc {
	return MediaInfoDoc{
		Resolution:   p.Resolution,
		Container:    p.Container,
		VideoCodec:   p.VideoCodec,
		BitDepth:     p.BitDepth,
		AudioCodec:   p.AudioCodec,
		AudioChannel: p.AudioChannel,
	}
}

func targetDoc(t synth.Target) *TargetDoc {
	posters := make(map[string]string, len(t.Posters))
	for url, abs := range t.Posters {
		if rel, err := filepath.Rel(t.Dir, abs); err == nil && !strings.HasPrefix(rel, "..") {
			posters[url] = rel
		} else {
			posters[url] = abs
		}
	}
	return &TargetDoc{Dir: t.Dir, FilePath: t.FilePath, NFOPath: t.NFOPath, Posters: posters}
}
