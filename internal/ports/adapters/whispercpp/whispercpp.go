package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

type Adapter struct {
	bin   string
	model string
}

func New(binPath, modelPath string) *Adapter {
	return &Adapter{bin: binPath, model: modelPath}
}

// Transcribe runs whisper.cpp on a 16 kHz mono wav. Output is kept in
// cacheDir and reused while it is newer than the wav.
func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return types.Transcript{}, err
	}
	outPrefix := filepath.Join(cacheDir, "whisper")
	jsonPath := outPrefix + ".json"

	if !fresh(jsonPath, wavPath) {
		cmd := exec.CommandContext(ctx, a.bin,
			"-m", a.model,
			"-f", wavPath,
			"-l", "auto",
			"-ojf",
			"-of", outPrefix,
		)
		if b, err := cmd.CombinedOutput(); err != nil {
			return types.Transcript{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
		}
	}

	jb, err := os.ReadFile(jsonPath)
	if err != nil {
		return types.Transcript{}, err
	}
	tr, err := parseOutput(jb)
	if err != nil {
		return types.Transcript{}, err
	}
	if len(tr.Segments) == 0 {
		return types.Transcript{}, fmt.Errorf("whisper.cpp found no speech: %w", ports.ErrNoCaptions)
	}
	return tr, nil
}

func fresh(out, in string) bool {
	o, err := os.Stat(out)
	if err != nil {
		return false
	}
	i, err := os.Stat(in)
	if err != nil {
		return false
	}
	return !o.ModTime().Before(i.ModTime())
}

type output struct {
	Transcription []struct {
		Offsets offsets `json:"offsets"`
		Text    string  `json:"text"`
		Tokens  []struct {
			Text    string  `json:"text"`
			Offsets offsets `json:"offsets"`
		} `json:"tokens"`
	} `json:"transcription"`
}

type offsets struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// parseOutput converts whisper.cpp full JSON output (millisecond offsets)
// into a transcript. Tokens become words; sub-word tokens without a
// leading space are glued to the previous word.
func parseOutput(b []byte) (types.Transcript, error) {
	var raw output
	if err := json.Unmarshal(b, &raw); err != nil {
		return types.Transcript{}, fmt.Errorf("parse whisper output: %w", err)
	}

	var tr types.Transcript
	for _, s := range raw.Transcription {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		seg := types.Segment{
			Start: ms(s.Offsets.From),
			End:   ms(s.Offsets.To),
			Text:  text,
		}
		for _, tok := range s.Tokens {
			if strings.HasPrefix(tok.Text, "[_") || strings.TrimSpace(tok.Text) == "" {
				continue
			}
			if !strings.HasPrefix(tok.Text, " ") && len(seg.Words) > 0 {
				last := &seg.Words[len(seg.Words)-1]
				last.Word += tok.Text
				last.End = ms(tok.Offsets.To)
				continue
			}
			seg.Words = append(seg.Words, types.Word{
				Start: ms(tok.Offsets.From),
				End:   ms(tok.Offsets.To),
				Word:  strings.TrimSpace(tok.Text),
			})
		}
		tr.Segments = append(tr.Segments, seg)
	}
	return tr, nil
}

func ms(v int64) float64 { return float64(v) / 1000 }
