package usecase

import (
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/adewaleolaore/youtube-arsenal/internal/domain/highlights"
	"github.com/adewaleolaore/youtube-arsenal/internal/logging"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("storage is not configured")
	ErrNoGenerator      = errors.New("AI provider not configured")
)

// InputError is a caller mistake with a message fit for the client.
type InputError struct {
	Msg string
	Err error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *InputError) Unwrap() error { return e.Err }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(msg string, cause error) error { return &InputError{Msg: msg, Err: cause} }

type Deps struct {
	Source ports.VideoSource
	Video  ports.VideoTool
	// ASR transcribes audio when a video has no captions. Optional.
	ASR ports.ASR
	LLM ports.Generator
	// Store persists per-user results. Optional; writes are best-effort.
	Store     ports.VideoStore
	Extractor *highlights.Extractor
	Log       *logrus.Entry

	VideosDir string
	ClipsDir  string
	CacheDir  string
}

type Usecase struct {
	d      Deps
	videos *singleflight.Group
}

func New(d Deps) Usecase {
	if d.Extractor == nil {
		d.Extractor = highlights.NewExtractor(highlights.DefaultVocabulary())
	}
	if d.Log == nil {
		d.Log = logging.Component(logging.Discard(), "usecase")
	}
	return Usecase{d: d, videos: &singleflight.Group{}}
}

func (u Usecase) requireLLM() error {
	if u.d.LLM == nil {
		return ErrNoGenerator
	}
	return nil
}
