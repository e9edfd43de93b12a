package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adewaleolaore/youtube-arsenal/internal/config"
	"github.com/adewaleolaore/youtube-arsenal/internal/logging"
	"github.com/adewaleolaore/youtube-arsenal/internal/pipeline"
)

func newClipsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clips [youtube-url]",
		Short: "Find highlight clips in a YouTube video or a local transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := ""
			if len(args) == 1 {
				url = args[0]
			}
			return runClips(cmd, url)
		},
	}

	cmd.Flags().String("out", "out", "Output directory")
	cmd.Flags().Int("clips", 6, "Number of clips")
	cmd.Flags().String("transcript-file", "", "Run offline on a .vtt or plain text transcript")
	cmd.Flags().Bool("distinct", false, "Drop overlapping and near-duplicate clips")
	cmd.Flags().Bool("enhance", false, "Rewrite titles and rate clips with the AI provider")
	cmd.Flags().Bool("render", false, "Download the video and render each clip to mp4")
	cmd.Flags().Bool("vertical", false, "Crop rendered clips to 9:16")
	cmd.Flags().Bool("subtitles", false, "Burn subtitles into rendered clips")
	cmd.Flags().Bool("snap", false, "Move clip ends to natural sentence or pause boundaries")

	// Hidden tuning flag (internal)
	cmd.Flags().Duration("timeout", 3*time.Hour, "Overall run timeout")
	_ = cmd.Flags().MarkHidden("timeout")
	return cmd
}

func runClips(cmd *cobra.Command, url string) error {
	flags := cmd.Flags()
	outDir, _ := flags.GetString("out")
	clipsN, _ := flags.GetInt("clips")
	transcriptFile, _ := flags.GetString("transcript-file")
	distinct, _ := flags.GetBool("distinct")
	enhance, _ := flags.GetBool("enhance")
	render, _ := flags.GetBool("render")
	vertical, _ := flags.GetBool("vertical")
	subs, _ := flags.GetBool("subtitles")
	snap, _ := flags.GetBool("snap")
	timeout, _ := flags.GetDuration("timeout")

	app := config.Load()
	log := logging.New(app.LogLevel, cmd.ErrOrStderr())

	cfg := pipeline.Config{
		URL:            url,
		TranscriptFile: transcriptFile,
		OutDir:         outDir,
		ClipsN:         clipsN,
		Distinct:       distinct,
		Enhance:        enhance,
		Render:         render,
		Vertical:       vertical,
		BurnSubtitles:  subs,
		Snap:           snap,
		App:            app,
		Log:            log,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return pipeline.Run(ctx, cfg)
}
