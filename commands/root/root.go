package root

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmichie/slidegen/commands"
)

const (
	DefaultPromptProvider = "ollama"
	DefaultImageProvider  = "openai"
	DefaultOutputDir      = "generated"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	opts    commands.Options

	// run executes the collected options
	run = commands.Run
)

// RootCmd is the root command for slidegen
var RootCmd = &cobra.Command{
	Use:   "slidegen",
	Short: "slidegen generates AI background images for presentation slides",
	Long: `slidegen turns slide titles into background images. A prompt provider
writes a photographic prompt for each slide and an image provider renders it.

Slides come from --titles, a text or markdown --file, or a --directory
containing slides.md and an optional config.yaml.

  slidegen --titles "Introduction" "Market Overview" "Q&A"`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		titles, err := collectTitles(cmd, opts.Titles, args)
		if err != nil {
			return err
		}
		opts.Titles = titles
		opts.PromptProvider = viper.GetString("prompt_provider")
		opts.ImageProvider = viper.GetString("image_provider")
		opts.OutputDir = viper.GetString("output")
		opts.Theme = viper.GetString("theme")
		opts.Style = viper.GetString("style")
		opts.Env = viper.GetViper()
		return run(cmd, opts)
	},
}

// collectTitles lets --titles take several values after one flag: the
// positional arguments that follow are further titles
func collectTitles(cmd *cobra.Command, titles, args []string) ([]string, error) {
	if len(args) == 0 {
		return titles, nil
	}
	if !cmd.Flags().Changed("titles") {
		return nil, fmt.Errorf("unexpected arguments %q (did you mean --titles?)", args)
	}
	return append(append([]string(nil), titles...), args...), nil
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellable context
func ExecuteContext(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.Flags()
	flags.StringArrayVarP(&opts.Titles, "titles", "t", nil, "slide titles (--titles A B C, or repeat the flag)")
	flags.StringVarP(&opts.File, "file", "f", "", "text file (one title per line) or markdown file (one slide per # header)")
	flags.StringVarP(&opts.Directory, "directory", "d", "", "slide directory containing slides.md and optional config.yaml")
	flags.String("prompt-provider", DefaultPromptProvider, "prompt provider (openai, gemini, ollama, lmstudio)")
	flags.String("image-provider", DefaultImageProvider, "image provider (openai, gemini)")
	flags.StringP("output", "o", DefaultOutputDir, "output directory for generated images")
	flags.String("theme", "", "theme passed to the prompt provider")
	flags.String("style", "", "style passed to the prompt and image providers")
	flags.BoolVar(&opts.HealthCheck, "health-check", false, "check that both providers are reachable and exit")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics in textfile format to this path")
	RootCmd.MarkFlagsMutuallyExclusive("titles", "file", "directory")

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.slidegen.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	viper.BindPFlag("prompt_provider", flags.Lookup("prompt-provider"))
	viper.BindPFlag("image_provider", flags.Lookup("image-provider"))
	viper.BindPFlag("output", flags.Lookup("output"))
	viper.BindPFlag("theme", flags.Lookup("theme"))
	viper.BindPFlag("style", flags.Lookup("style"))
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))

	RootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// A missing .env is normal; the real environment still applies.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("error loading .env")
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".slidegen" (without extension).
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".slidegen")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else if cfgFile != "" {
		logrus.WithError(err).Warnf("error reading config file %s", cfgFile)
	}
}

func setupLogging() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if viper.GetBool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of slidegen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "slidegen "+Version)
	},
}
