package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"transcript-fixture/internal/config"
	"transcript-fixture/internal/fixture"
	"transcript-fixture/internal/savedvars"
	"transcript-fixture/internal/transcribe"
	"transcript-fixture/internal/transcript"
)

type options struct {
	transcriptor string
	entry        string
	start        int
	end          int
	player       string
	verbose      bool
}

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "transcript-fixture",
		Short: "Convert a Transcriptor combat log into a boss-mod replay fixture",
		Long: `Selects one encounter from an addon-captured combat transcript,
reconstructs the combat-log event stream that produced it, filters out
events irrelevant to detection logic, and writes a replayable test fixture
to standard output.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			if cmd.Flags().Changed("start") != cmd.Flags().Changed("end") {
				return fmt.Errorf("--start and --end must be given together")
			}
			return run(opts)
		},
	}

	rootCmd.Flags().StringVar(&opts.transcriptor, "transcriptor", "", "path to the saved-variables transcript file (required)")
	rootCmd.Flags().StringVar(&opts.entry, "entry", "", "prefix selecting one transcript entry when the file holds several")
	rootCmd.Flags().IntVar(&opts.start, "start", 0, "explicit first line of the encounter (1-based, requires --end)")
	rootCmd.Flags().IntVar(&opts.end, "end", 0, "explicit last line of the encounter (1-based, requires --start)")
	rootCmd.Flags().StringVar(&opts.player, "player", "", "expected player name, cross-checked against the transcript")
	rootCmd.Flags().BoolVar(&opts.verbose, "verbose", false, "log per-rule suppression counts")
	_ = rootCmd.MarkFlagRequired("transcriptor")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts *options) error {
	cfg := config.Load()

	file, err := savedvars.Load(opts.transcriptor)
	if err != nil {
		return err
	}

	entry, err := file.Select(opts.entry)
	if err != nil {
		return err
	}
	log.Info().Str("entry", entry.Name).Int("lines", len(entry.Total)).Msg("Selected transcript entry")

	var rng transcript.Range
	if opts.start != 0 || opts.end != 0 {
		rng, err = transcript.ExplicitRange(opts.start-1, opts.end-1, len(entry.Total))
	} else {
		rng, err = transcript.DetectRange(entry.Total, cfg.KillExtensionWindow)
	}
	if err != nil {
		return err
	}
	log.Info().Int("first", rng.First+1).Int("last", rng.Last+1).Msg("Encounter range")

	md, err := transcript.ExtractMetadata(entry.Name, entry.Total, rng)
	if err != nil {
		return err
	}
	playerName := fixture.ResolvePlayerName(opts.player, md.PlayerName)
	if playerName == "" {
		log.Warn().Msg("Could not deduce the player name; pass --player to set self affiliation bits")
	}

	tr := transcribe.New(playerName, cfg.IgnoredSpellIDs, cfg.IgnoredCreatureIDs)
	var events []transcribe.Event
	for i := rng.First; i <= rng.Last; i++ {
		line, err := transcript.ParseLine(entry.Total[i])
		if err != nil {
			return err
		}
		if ev := tr.Transcribe(line); ev != nil {
			events = append(events, *ev)
		}
	}

	err = fixture.Render(os.Stdout, fixture.Fixture{
		GameVersion: md.GameVersion,
		Instance:    md.Instance,
		PlayerName:  playerName,
		Events:      events,
	})
	if err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}

	for rule, n := range tr.Suppressed {
		log.Debug().Str("rule", rule).Int("lines", n).Msg("Suppressed")
	}
	log.Info().
		Int("lines", rng.Last-rng.First+1).
		Int("events", len(events)).
		Msg("Fixture generated")

	return nil
}
