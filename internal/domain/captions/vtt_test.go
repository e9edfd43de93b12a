package captions

import (
	"errors"
	"strings"
	"testing"
)

const autoSubs = `WEBVTT
Kind: captions
Language: en

00:00:00.000 --> 00:00:02.500 align:start position:0%
so<00:00:00.480><c> today</c><00:00:00.960><c> we</c>

00:00:02.500 --> 00:00:02.510 align:start position:0%
so today we

00:00:02.510 --> 00:00:05.000 align:start position:0%
so today we
talk about the secret &amp; the tip

1:02:03.250 --> 1:02:04.000
last line
`

func TestParseVTT_AutoGeneratedCaptions(t *testing.T) {
	tr, err := ParseVTT(strings.NewReader(autoSubs))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tr.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(tr.Segments), tr.Segments)
	}
	if tr.Segments[0].Text != "so today we" {
		t.Fatalf("tags not stripped: %q", tr.Segments[0].Text)
	}
	if tr.Segments[1].Text != "talk about the secret & the tip" {
		t.Fatalf("rolling repeat not collapsed: %q", tr.Segments[1].Text)
	}
	if tr.Segments[1].Start != 2.51 || tr.Segments[1].End != 5 {
		t.Fatalf("unexpected timing %v-%v", tr.Segments[1].Start, tr.Segments[1].End)
	}
	if tr.Segments[2].Start != 3723.25 {
		t.Fatalf("expected hour timestamp parsed, got %v", tr.Segments[2].Start)
	}
	if got := tr.Text(); got != "so today we talk about the secret & the tip last line" {
		t.Fatalf("unexpected joined text %q", got)
	}
	timed := tr.Timed()
	if timed[2].OffsetMillis != 3723250 {
		t.Fatalf("unexpected offset %v", timed[2].OffsetMillis)
	}
}

func TestParseVTT_ShortTimestampsAndIdentifiers(t *testing.T) {
	in := "WEBVTT\n\n1\n00:01.000 --> 00:03,500\nHello there\n\n2\n00:04.000 --> 00:06.000\n<v Speaker>General Kenobi\n"
	tr, err := ParseVTT(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tr.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(tr.Segments))
	}
	if tr.Segments[0].Start != 1 || tr.Segments[0].End != 3.5 {
		t.Fatalf("unexpected timing %+v", tr.Segments[0])
	}
	if tr.Segments[1].Text != "General Kenobi" {
		t.Fatalf("voice tag not stripped: %q", tr.Segments[1].Text)
	}
}

func TestParseVTT_Errors(t *testing.T) {
	if _, err := ParseVTT(strings.NewReader("WEBVTT\n\n")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := ParseVTT(strings.NewReader("WEBVTT\n\nxx:01.000 --> 00:02.000\nhi\n")); err == nil {
		t.Fatalf("expected timestamp error")
	}
}
