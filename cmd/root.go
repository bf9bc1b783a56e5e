package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/mdtree/internal/config"
	"github.com/itsmostafa/mdtree/internal/document"
	"github.com/itsmostafa/mdtree/internal/logger"
	"github.com/itsmostafa/mdtree/internal/treectl"
	"github.com/itsmostafa/mdtree/internal/tui"
	"github.com/itsmostafa/mdtree/internal/version"
)

// defaultFile is opened when no file argument is given.
const defaultFile = "README.md"

var (
	configFile string
	noNarrow   bool
	debounce   time.Duration
	logLevel   string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "mdtree [file]",
	Short: "Browse a Markdown or Org document through its outline",
	Long: `mdtree shows a document next to a tree of its headings. Selecting a heading
jumps the document there and narrows it to that section. The tree follows the
cursor and is rebuilt shortly after the file changes on disk.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
			return err
		}
		defer logger.Close()

		doc, err := document.Open(fileArg(args))
		if err != nil {
			return err
		}
		logger.Info("starting", "version", version.Version, "doc", doc.Path(), "kind", doc.Kind().String())

		return tui.Run(cmd.Context(), doc, tui.Options{
			Controller: treectl.Options{
				NarrowOnJump: cfg.NarrowOnJump,
				Debounce:     cfg.Debounce,
			},
			PanelWidth: cfg.Panel.Width,
			Logger:     logger.With("doc", doc.Name()),
		})
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("mdtree %s\n", version.String()))

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $HOME/.config/mdtree/config.yaml)")
	rootCmd.Flags().BoolVar(&noNarrow, "no-narrow", false, "Do not narrow the document to the selected section")
	rootCmd.Flags().DurationVar(&debounce, "debounce", 0, "Delay before rebuilding the tree after a change")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Log file (default ~/.config/mdtree/mdtree.log)")
}

// loadConfig reads the config file and applies flags that were set
// explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("no-narrow") {
		cfg.NarrowOnJump = !noNarrow
	}
	if flags.Changed("debounce") {
		cfg.Debounce = debounce
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fileArg(args []string) string {
	if len(args) == 0 {
		return defaultFile
	}
	return args[0]
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
