// Command ytgrab is the CLI boundary over the extraction engine: it
// parses flags, invokes one operation, and prints the structured
// result as JSON. All recovery logic lives below this layer.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytgrab/ytgrab/client"
	"github.com/ytgrab/ytgrab/internal/config"
	"github.com/ytgrab/ytgrab/internal/fetch"
	"github.com/ytgrab/ytgrab/internal/muxer"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	flagOutput  string
	flagQuality string
	flagProxy   string
	flagDebug   bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ytgrab",
	Short: "Extract and download video streams from the command line",
	Long: `ytgrab negotiates with the platform's internal player API using
impersonated client contexts and downloads the selected stream.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output directory (default: ./downloads)")
	rootCmd.PersistentFlags().StringVarP(&flagQuality, "quality", "q", "", "Quality: best | worst | label like 720p")
	rootCmd.PersistentFlags().StringVar(&flagProxy, "proxy", "", "Proxy URL for all requests")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagOutput != "" {
		cfg.OutputDir = flagOutput
	}
	if flagQuality != "" {
		cfg.Quality = flagQuality
	}
	if flagProxy != "" {
		cfg.Proxy = flagProxy
	}
	if flagDebug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.SetOutput(os.Stderr)
	if cfg.Debug {
		log.SetPrefix("[ytgrab] ")
	} else {
		log.SetFlags(0)
	}
	return nil
}

func newClient(progress fetch.ProgressReporter) (*client.Client, error) {
	outputDir, err := cfg.ExpandOutputDir()
	if err != nil {
		return nil, err
	}
	return client.New(client.Config{
		ProxyURL:       cfg.Proxy,
		OutputDir:      outputDir,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RetryAttempts:  cfg.RetryAttempts,
		Muxer:          muxer.NewFFmpeg(cfg.FFmpegPath),
		Logger:         stderrLogger{},
		Progress:       progress,
	}), nil
}

type stderrLogger struct{}

func (stderrLogger) Warnf(format string, args ...any) {
	log.Printf("warning: "+format, args...)
}

// printJSON writes one result object to stdout; stdout carries nothing
// but the structured result.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ytgrab version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}
