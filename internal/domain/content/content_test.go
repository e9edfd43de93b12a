package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

func testCandidates() []types.ClipCandidate {
	return []types.ClipCandidate{
		{Title: "Here is the secret nobody tells you.", StartTime: 0, EndTime: 45, SourceText: "Here is the secret nobody tells you.", HookScore: 4, Reasons: []string{`Contains hook word: "secret"`, `Contains hook word: "nobody tells you"`}},
		{Title: "Why do 90% of people fail?", StartTime: 100, EndTime: 145, SourceText: "Why do 90% of people fail?", HookScore: 3, Reasons: []string{`Contains hook word: "why"`, "Contains question", "Contains numbers/stats"}},
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...(truncated)", Truncate("abcdef", 3))
	assert.Equal(t, "héé...(truncated)", Truncate("hééllo", 3))
}

func TestParseKeywords(t *testing.T) {
	long := strings.Repeat("x", 50)
	got := ParseKeywords(" go tutorial, , golang basics ," + long + ",concurrency\n")
	assert.Equal(t, []string{"go tutorial", "golang basics", "concurrency"}, got)

	many := make([]string, 40)
	for i := range many {
		many[i] = "kw"
	}
	assert.Len(t, ParseKeywords(strings.Join(many, ",")), 25)
}

func TestHashtags(t *testing.T) {
	assert.Equal(t, []string{"#gotutorial", "#web"}, Hashtags([]string{"go  tutorial", "web"}))

	kws := make([]string, 12)
	for i := range kws {
		kws[i] = "k"
	}
	assert.Len(t, Hashtags(kws), 10)
	assert.Empty(t, Hashtags(nil))
}

func TestEnhanceClips_JSON(t *testing.T) {
	resp := "Here you go:\n```json\n" + `{"clips":[
		{"improvedTitle":"The SECRET","startTime":0,"endTime":40,"hookScore":5,"viralPotential":"high","reason":"hook","strategy":"post at 8pm","transcript":"model text"},
		{"title":"Fail fast","startTime":100,"endTime":140,"hookScore":3.0,"reason":"stats"}
	]}` + "\n```\nGood luck!"

	clips, ok := EnhanceClips(resp, testCandidates())
	require.True(t, ok)
	require.Len(t, clips, 2)

	assert.Equal(t, "The SECRET", clips[0].ImprovedTitle)
	assert.Equal(t, types.ViralHigh, clips[0].ViralPotential)
	assert.Equal(t, 40.0, clips[0].Duration)
	assert.Equal(t, "Here is the secret nobody tells you.", clips[0].Transcript)
	assert.Equal(t, "Here is the secret nobody tells you.", clips[0].OriginalTitle)

	assert.Equal(t, "Fail fast", clips[1].ImprovedTitle)
	assert.Equal(t, types.ViralMedium, clips[1].ViralPotential)
	assert.Equal(t, 2, HighViralCount(append(clips, clips[0])))
}

func TestEnhanceClips_ExtraClipKeepsModelTranscript(t *testing.T) {
	resp := `{"clips":[{"improvedTitle":"a"},{"improvedTitle":"b"},{"improvedTitle":"c","transcript":"own"}]}`
	clips, ok := EnhanceClips(resp, testCandidates())
	require.True(t, ok)
	require.Len(t, clips, 3)
	assert.Equal(t, "own", clips[2].Transcript)
}

func TestEnhanceClips_FallbackUsesNumberedLines(t *testing.T) {
	resp := "Sure! Here are better titles:\n1. You Won't Believe This Secret\n  2.  Why Most People Fail\nThanks"
	clips, ok := EnhanceClips(resp, testCandidates())
	require.False(t, ok)
	require.Len(t, clips, 2)

	assert.Equal(t, "You Won't Believe This Secret", clips[0].ImprovedTitle)
	assert.Equal(t, "Why Most People Fail", clips[1].ImprovedTitle)
	assert.Equal(t, types.ViralHigh, clips[0].ViralPotential)
	assert.Equal(t, types.ViralMedium, clips[1].ViralPotential)
	assert.Equal(t, FallbackStrategy, clips[1].Strategy)
	assert.Equal(t, 45.0, clips[1].Duration)
	assert.Equal(t, `Contains hook word: "why", Contains question, Contains numbers/stats`, clips[1].Reason)
}

func TestEnhanceClips_FallbackKeepsCoreTitles(t *testing.T) {
	clips, ok := EnhanceClips("no idea", testCandidates())
	require.False(t, ok)
	assert.Equal(t, "Why do 90% of people fail?", clips[1].ImprovedTitle)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"raw", `{"clips":[]}`, `{"clips":[]}`, false},
		{"json fence", "```json\n{\"clips\":[]}\n```", `{"clips":[]}`, false},
		{"plain fence", "text\n```\n{\"a\":1}\n```", `{"a":1}`, false},
		{"preface", "sure! {\"clips\":[]} thanks", `{"clips":[]}`, false},
		{"empty", "   ", "", true},
		{"nojson", "hello", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompts(t *testing.T) {
	v := VideoText{Title: "Go in 100s", Transcript: strings.Repeat("a", 9000), Summary: "sum"}

	s := SummaryPrompt(v)
	assert.Contains(t, s, `Video Title: "Go in 100s"`)
	assert.Contains(t, s, "...(truncated)")

	d := DescriptionPrompt(v)
	assert.Contains(t, d, `Summary: "sum"`)
	assert.True(t, strings.HasSuffix(d, "YouTube Description:"))

	k := KeywordsPrompt(VideoText{Title: "t", Summary: "s"})
	assert.NotContains(t, k, "Transcript:")

	c := ClipsPrompt("t", "body", 754, testCandidates())
	assert.Contains(t, c, "Video Duration: 12:34")
	assert.Contains(t, c, `2. "Why do 90% of people fail?" (100s-145s) - Score: 3`)
	assert.Contains(t, c, `Reason: Contains hook word: "why", Contains question, Contains numbers/stats`)
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 3, WordCount(" one  two\nthree "))
	assert.Equal(t, 0, WordCount(""))
}
