package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "prospector",
	Short: "Prospector - deterministic defense-prospect scoring",
	Long: `Prospector ranks defense-contractor companies by how likely they are to
need CMMC/DFARS compliance tooling.

It scores research evidence against a weighted keyword taxonomy across
four categories (defense contract activity, technology relevance,
compliance indicators, firmographics), aggregates them into a 0-100
composite, and assigns a priority tier.

Scoring is deterministic: the same evidence and configuration always
produce the same score. All scoring constants live in the configuration
file, not in code.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Prospector.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("prospector v0.3.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.prospector/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.prospector")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match PROSPECTOR_*
	viper.SetEnvPrefix("PROSPECTOR")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// configPath returns the config file to load, preferring the --config flag
// over the file viper discovered in the home directory.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return viper.ConfigFileUsed()
}
