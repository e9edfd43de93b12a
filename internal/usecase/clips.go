package usecase

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/adewaleolaore/youtube-arsenal/internal/domain/content"
	"github.com/adewaleolaore/youtube-arsenal/internal/domain/highlights"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

// ClipSuggestionLimit is the candidate cap for the clip suggestion workflow.
const ClipSuggestionLimit = 8

const untitledClip = "Untitled Clip"

type ClipsInput struct {
	UserID     uint
	VideoID    string
	Title      string
	Transcript string
	// Duration in seconds; zero means unknown.
	Duration float64
	// Distinct drops overlapping or near-duplicate candidates before enhancement.
	Distinct bool
}

type ClipsResult struct {
	Clips      []types.EnhancedClip
	Candidates []types.ClipCandidate
	// Enhanced is false when the model reply was unusable and clips were
	// derived from the candidates alone.
	Enhanced bool
}

func (r ClipsResult) HighViralPotential() int { return content.HighViralCount(r.Clips) }

// FindClips proposes short-form clips: heuristic candidates first, then a
// model pass that rewrites titles and rates each clip.
func (u Usecase) FindClips(ctx context.Context, in ClipsInput) (ClipsResult, error) {
	if err := requireTitleTranscript(GenerateInput{Title: in.Title, Transcript: in.Transcript}); err != nil {
		return ClipsResult{}, err
	}

	cands := u.candidates(in.Transcript, nil, ClipSuggestionLimit, in.Duration, in.Distinct)
	log := u.d.Log.WithFields(logrus.Fields{"video_id": in.VideoID, "candidates": len(cands)})
	if len(cands) == 0 {
		log.Info("no clip candidates")
		return ClipsResult{Clips: []types.EnhancedClip{}, Candidates: cands}, nil
	}

	prompt := content.ClipsPrompt(in.Title, in.Transcript, int(in.Duration), cands)
	reply, err := u.generate(ctx, "clips", prompt, content.ClipsOptions)
	if err != nil {
		return ClipsResult{}, err
	}
	clips, enhanced := content.EnhanceClips(reply, cands)
	if !enhanced {
		log.Warn("model reply was not valid JSON, using heuristic clips")
	}
	log.WithField("clips", len(clips)).Info("clips enhanced")

	if u.d.Store != nil && in.UserID != 0 && in.VideoID != "" {
		if err := u.d.Store.ReplaceClips(ctx, in.UserID, in.VideoID, clipRecords(clips)); err != nil {
			log.WithError(err).Error("saving clips failed")
		}
	}
	return ClipsResult{Clips: clips, Candidates: cands, Enhanced: enhanced}, nil
}

func (u Usecase) candidates(transcript string, segments []types.TimedSegment, limit int, duration float64, distinct bool) []types.ClipCandidate {
	cands := u.d.Extractor.Extract(highlights.Request{
		Transcript:    transcript,
		Segments:      segments,
		MaxCandidates: limit,
		TotalDuration: duration,
	})
	if distinct {
		cands = highlights.Distinct(cands, highlights.DefaultDistinctOptions())
	}
	return cands
}

func clipRecords(clips []types.EnhancedClip) []ports.ClipRecord {
	return lo.Map(clips, func(c types.EnhancedClip, _ int) ports.ClipRecord {
		title := strings.TrimSpace(c.ImprovedTitle)
		if title == "" {
			title = strings.TrimSpace(c.OriginalTitle)
		}
		if title == "" {
			title = untitledClip
		}
		return ports.ClipRecord{
			Title:             title,
			StartTime:         c.StartTime,
			EndTime:           c.EndTime,
			TranscriptExcerpt: c.Transcript,
			HookScore:         c.HookScore,
		}
	})
}
