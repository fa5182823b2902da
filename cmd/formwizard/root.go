package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	formwizard "github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/form"
)

var cfgFile string

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "formwizard",
	Short: "Career application wizard",
	Long: `formwizard walks an applicant through the ten step career application:
personal details, documents, family, languages, job preferences, experience
and consent. Steps are validated before the wizard moves on and the finished
application is written as JSON, form data or plain text.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.formwizard.yaml)")
	flags.String("definition", "", "form definition file (default is the built-in career application)")
	flags.BoolP("verbose", "v", false, "enable verbose output")
	_ = viper.BindPFlag("definition", flags.Lookup("definition"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))

	rootCmd.AddCommand(newRunCmd(), newValidateCmd())
}

// initConfig loads configuration from the config file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".formwizard")
	}

	viper.SetEnvPrefix("FORMWIZARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// loadDefinition reads the configured definition, falling back to the
// embedded one.
func loadDefinition() (*form.Definition, error) {
	path := strings.TrimSpace(viper.GetString("definition"))
	def, err := formwizard.LoadDefinition(path)
	if err != nil {
		return nil, fmt.Errorf("load definition: %w", err)
	}
	return def, nil
}
