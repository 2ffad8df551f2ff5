// Package cmd implements the syncplayer command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/GoldenFealla/SyncPlayerGo/internal/config"
	"github.com/GoldenFealla/SyncPlayerGo/internal/log"
	"github.com/GoldenFealla/SyncPlayerGo/internal/track"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	flagVideoTrack = "video-track"
	flagAudioTrack = "audio-track"
	flagKateTrack  = "kate-track"
	flagRenderMode = "render-mode"
	flagLogLevel   = "log-level"
)

func init() {
	cobra.OnInitialize(initConfig)

	addTrackFlags(rootCmd.Flags())

	rootCmd.Flags().StringP(flagRenderMode, "r", config.RenderOverlay, "Video rendering: overlay (planar YUV) or convert (packed RGB)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc(flagRenderMode, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{config.RenderOverlay, config.RenderConvert}, cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(config.RenderMode, rootCmd.Flags().Lookup(flagRenderMode)))

	rootCmd.PersistentFlags().String(flagLogLevel, "info", "Log level: debug, info, warn or error")
	lo.Must0(viper.BindPFlag(config.LogLevel, rootCmd.PersistentFlags().Lookup(flagLogLevel)))
}

func initConfig() {
	if err := config.Setup(afero.NewOsFs(), config.Dir()); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
	}
	log.Setup(viper.GetString(config.LogLevel), viper.GetBool(config.LogJSON), os.Stderr)
}

var rootCmd = &cobra.Command{
	Use:   config.Name + " <path|url>",
	Short: "Play a media file with video, audio and subtitles kept in sync",
	Long: "Play a local file or an http(s) stream. The first track of each kind plays\n" +
		"unless a track flag selects another one or disables the kind.\n\n" +
		"Keys: space pause, left/right seek 10s, f fullscreen, q or esc quit.",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		sels, err := selections(cmd.Flags())
		if err != nil {
			return err
		}

		mode := viper.GetString(config.RenderMode)
		if mode != config.RenderOverlay && mode != config.RenderConvert {
			return fmt.Errorf("invalid render mode %q, want %s or %s", mode, config.RenderOverlay, config.RenderConvert)
		}

		// past this point failures are not usage errors
		cmd.SilenceUsage = true
		return play(args[0], sels)
	},
}

func addTrackFlags(fs *pflag.FlagSet) {
	fs.Int(flagVideoTrack, 0, "Index of the video track to play, -1 disables video")
	fs.Int(flagAudioTrack, 0, "Index of the audio track to play, -1 disables audio")
	fs.Int(flagKateTrack, 0, "Index of the subtitle track to show, -1 disables subtitles")
}

type trackSelections struct {
	video, audio, subtitle track.Selection
}

// selections reads the track flags; a flag left out selects the first track
// of its kind.
func selections(fs *pflag.FlagSet) (trackSelections, error) {
	var (
		sels trackSelections
		err  error
	)

	for name, sel := range map[string]*track.Selection{
		flagVideoTrack: &sels.video,
		flagAudioTrack: &sels.audio,
		flagKateTrack:  &sels.subtitle,
	} {
		if !fs.Changed(name) {
			continue
		}
		if *sel, err = track.ParseFlag(lo.Must(fs.GetInt(name))); err != nil {
			return sels, fmt.Errorf("--%s: %w", name, err)
		}
	}

	return sels, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		handleErr(err)
	}
}

func handleErr(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s: %s\n", config.Name, strings.Trim(err.Error(), " \n"))
	os.Exit(1)
}
