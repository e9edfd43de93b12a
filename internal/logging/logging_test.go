package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_LevelAndComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)
	if log.GetLevel() != logrus.WarnLevel {
		t.Fatalf("expected warn level, got %s", log.GetLevel())
	}

	Component(log, "usecase").Info("hidden")
	Component(log, "usecase").Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info entry should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "component=usecase") || !strings.Contains(out, "shown") {
		t.Fatalf("expected component field in output:\n%s", out)
	}
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	if got := New("loud", nil).GetLevel(); got != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", got)
	}
}
