package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/adewaleolaore/youtube-arsenal/internal/domain/content"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

const (
	msgTitleTranscript        = "Video title and transcript are required"
	msgTitleTranscriptSummary = "Video title and either transcript or summary are required"
)

// GenerateInput carries the video text the generators work from. VideoID
// is optional; when set the result is saved on the user's video.
type GenerateInput struct {
	UserID              uint
	VideoID             string
	Title               string
	Transcript          string
	Description         string
	Summary             string
	OriginalDescription string
}

func (in GenerateInput) text() content.VideoText {
	return content.VideoText{
		Title:               in.Title,
		Transcript:          in.Transcript,
		Description:         in.Description,
		Summary:             in.Summary,
		OriginalDescription: in.OriginalDescription,
	}
}

type KeywordsResult struct {
	Keywords []string
	Hashtags []string
}

type AnalysisResult struct {
	Summary     string
	Description string
	Keywords    KeywordsResult
}

func (u Usecase) Summarize(ctx context.Context, in GenerateInput) (string, error) {
	if err := requireTitleTranscript(in); err != nil {
		return "", err
	}
	summary, err := u.summarize(ctx, in)
	if err != nil {
		return "", err
	}
	u.saveAnalysis(ctx, in, ports.Analysis{Summary: &summary})
	return summary, nil
}

func (u Usecase) Describe(ctx context.Context, in GenerateInput) (string, error) {
	if err := requireTitleAndText(in); err != nil {
		return "", err
	}
	desc, err := u.describe(ctx, in)
	if err != nil {
		return "", err
	}
	u.saveAnalysis(ctx, in, ports.Analysis{GeneratedDescription: &desc})
	return desc, nil
}

func (u Usecase) Keywords(ctx context.Context, in GenerateInput) (KeywordsResult, error) {
	if err := requireTitleAndText(in); err != nil {
		return KeywordsResult{}, err
	}
	kw, err := u.keywords(ctx, in)
	if err != nil {
		return KeywordsResult{}, err
	}
	u.saveAnalysis(ctx, in, ports.Analysis{Keywords: kw.Keywords})
	return kw, nil
}

// Analyze runs summary, description and keyword generation concurrently.
// The first failure cancels the others.
func (u Usecase) Analyze(ctx context.Context, in GenerateInput) (AnalysisResult, error) {
	if err := requireTitleTranscript(in); err != nil {
		return AnalysisResult{}, err
	}

	var res AnalysisResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := u.summarize(gctx, in)
		res.Summary = s
		return err
	})
	g.Go(func() error {
		d, err := u.describe(gctx, in)
		res.Description = d
		return err
	})
	g.Go(func() error {
		k, err := u.keywords(gctx, in)
		res.Keywords = k
		return err
	})
	if err := g.Wait(); err != nil {
		return AnalysisResult{}, err
	}

	u.saveAnalysis(ctx, in, ports.Analysis{
		Summary:              &res.Summary,
		GeneratedDescription: &res.Description,
		Keywords:             res.Keywords.Keywords,
	})
	return res, nil
}

func (u Usecase) summarize(ctx context.Context, in GenerateInput) (string, error) {
	return u.generate(ctx, "summary", content.SummaryPrompt(in.text()), content.SummaryOptions)
}

func (u Usecase) describe(ctx context.Context, in GenerateInput) (string, error) {
	return u.generate(ctx, "description", content.DescriptionPrompt(in.text()), content.DescriptionOptions)
}

func (u Usecase) keywords(ctx context.Context, in GenerateInput) (KeywordsResult, error) {
	out, err := u.generate(ctx, "keywords", content.KeywordsPrompt(in.text()), content.KeywordsOptions)
	if err != nil {
		return KeywordsResult{}, err
	}
	kws := content.ParseKeywords(out)
	return KeywordsResult{Keywords: kws, Hashtags: content.Hashtags(kws)}, nil
}

func (u Usecase) generate(ctx context.Context, what, prompt string, opts types.GenerateOptions) (string, error) {
	if err := u.requireLLM(); err != nil {
		return "", err
	}
	out, err := u.d.LLM.Generate(ctx, prompt, opts)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", what, err)
	}
	out = strings.TrimSpace(out)
	u.d.Log.WithField("chars", len(out)).Infof("%s generated", what)
	return out, nil
}

func (u Usecase) saveAnalysis(ctx context.Context, in GenerateInput, a ports.Analysis) {
	if u.d.Store == nil || in.UserID == 0 || in.VideoID == "" {
		return
	}
	if err := u.d.Store.UpdateAnalysis(ctx, in.UserID, in.VideoID, a); err != nil {
		u.d.Log.WithError(err).WithField("video_id", in.VideoID).Error("updating video analysis failed")
	}
}

func requireTitleTranscript(in GenerateInput) error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Transcript) == "" {
		return invalid(msgTitleTranscript, nil)
	}
	return nil
}

func requireTitleAndText(in GenerateInput) error {
	if strings.TrimSpace(in.Title) == "" || (strings.TrimSpace(in.Transcript) == "" && strings.TrimSpace(in.Summary) == "") {
		return invalid(msgTitleTranscriptSummary, nil)
	}
	return nil
}
