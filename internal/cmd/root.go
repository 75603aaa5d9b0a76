package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ACCESS-NRI/access-profiling/internal/output"
)

var (
	cfgFile   string
	outputFmt string
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "accessprof",
	Short: "accessprof — profiling data extraction for ACCESS models",
	Long: `accessprof reads the profiling output of coupled climate model runs
(FMS, UM, CICE5, ESMF, cylc, payu) and normalizes it into uniform
region/metric tables for comparison, scaling analysis and plotting.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.accessprof.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json, csv")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".accessprof")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	_ = viper.ReadInConfig()

	// Flags beat config, config beats the built-in default.
	if !rootCmd.PersistentFlags().Changed("output") && viper.IsSet("output") {
		outputFmt = viper.GetString("output")
	}
}

// newRenderer picks the renderer for the --output flag.
func newRenderer() (output.Renderer, error) {
	switch strings.ToLower(outputFmt) {
	case "json":
		return output.NewJSONRenderer(), nil
	case "csv":
		return output.NewCSVRenderer(), nil
	case "text", "":
		return output.NewTextRenderer(), nil
	}
	return nil, fmt.Errorf("unknown output format %q (known: text, json, csv)", outputFmt)
}
