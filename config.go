package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	burst       int
	compat404   bool
	endDelay    time.Duration
	host        string
	idleTimeout time.Duration
	port        int
	profile     bool
	rate        float64
	statusPort  int
	themes      string
	verbose     bool
	version     bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.statusPort < 0 || c.statusPort > 65535 {
		return fmt.Errorf("invalid status port (must be between 0-65535 inclusive): %d", c.statusPort)
	}
	if c.statusPort != 0 && c.statusPort == c.port {
		return errors.New("--status-port must differ from the game port")
	}
	if c.rate <= 0 {
		return fmt.Errorf("invalid rate (must be positive): %v", c.rate)
	}
	if c.burst < 1 {
		return fmt.Errorf("invalid burst (must be at least 1): %d", c.burst)
	}
	if c.endDelay < 0 || c.idleTimeout < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// address parses the HOST PORT pair shared by both subcommands.
func (c *Config) address(args []string) error {
	port, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid port (must be an integer): %q", args[1])
	}

	c.host = args[0]
	c.port = port

	return nil
}

// normalizeFlags accepts --end_delay as well as --end-delay.
func normalizeFlags(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}

// bindEnv lets FORCA_* environment variables (and a .env file) fill in any
// flag not given on the command line.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newServeCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve HOST PORT",
		Short: "Run the game server.",
		Args:  cobra.ExactArgs(2),
		PreRun: func(cmd *cobra.Command, args []string) {
			bindEnv(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.address(args); err != nil {
				return err
			}
			if err := cfg.validate(); err != nil {
				return err
			}

			themes, err := loadThemes(cfg.themes)
			if err != nil {
				return err
			}

			logf(cfg, "THEMES: Loaded %d words across %d themes", themes.Size(), len(themes.Names()))

			return Serve(cmd.Context(), cfg, themes)
		},
	}

	fs := cmd.Flags()

	normalizeFlags(fs)

	fs.IntVar(&cfg.burst, "burst", 10, "commands a client may send in a burst (env: FORCA_BURST)")
	fs.BoolVar(&cfg.compat404, "compat-404", false, "answer 404 instead of 403 when a room is full (env: FORCA_COMPAT_404)")
	fs.DurationVar(&cfg.endDelay, "end-delay", 2*time.Second, "pause between the result and the game over notice (env: FORCA_END_DELAY)")
	fs.DurationVar(&cfg.idleTimeout, "idle-timeout", 0, "disconnect clients idle in the lobby for this long, 0 to disable (env: FORCA_IDLE_TIMEOUT)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers on the status port (env: FORCA_PROFILE)")
	fs.Float64Var(&cfg.rate, "rate", 5, "sustained commands per second allowed per client (env: FORCA_RATE)")
	fs.IntVar(&cfg.statusPort, "status-port", 0, "port for the HTTP status page and websocket bridge, 0 to disable (env: FORCA_STATUS_PORT)")
	fs.StringVar(&cfg.themes, "themes", "", "path to a themes file (yaml, json or toml); built-in list if empty (env: FORCA_THEMES)")

	return cmd
}

func newPlayCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "play HOST PORT",
		Short: "Connect to a game server and play in the terminal.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.address(args); err != nil {
				return err
			}
			if cfg.port < 1 || cfg.port > 65535 {
				return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", cfg.port)
			}

			return Play(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("FORCA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "forca",
		Short:         "Multiplayer hangman over a plain text TCP protocol.",
		SilenceErrors: true,
		Version:       releaseVersion,
	}

	pfs := cmd.PersistentFlags()
	normalizeFlags(pfs)
	normalizeFlags(cmd.Flags())

	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: FORCA_VERBOSE)")

	cmd.Flags().BoolVarP(&cfg.version, "version", "V", false, "display version and exit")

	cobra.OnInitialize(func() {
		bindEnv(v, pfs)
	})

	cmd.AddCommand(newServeCmd(cfg, v), newPlayCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("forca v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
