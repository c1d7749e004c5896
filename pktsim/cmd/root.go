// Package cmd provides the command-line interface of pktsim.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envPrefix is prepended to a flag name to find its default in the
// environment. The flag "open-browser" reads PKTSIM_OPEN_BROWSER.
const envPrefix = "PKTSIM_"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pktsim",
	Short: "pktsim runs packet transmission scenarios.",
	Long: `pktsim runs packet transmission scenarios described in YAML ` +
		`files. Flags that are not given on the command line are read from ` +
		`PKTSIM_* environment variables, which can be set in a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		envFile, _ := cmd.Flags().GetString("env")

		return loadEnvDefaults(envFile, cmd.Flags())
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("env", ".env",
		"The file to read PKTSIM_* defaults from. A missing file is ignored.")
}

// loadEnvDefaults loads the env file, if there is one, and sets every flag
// that was not given on the command line from its PKTSIM_* variable.
func loadEnvDefaults(envFile string, flags *pflag.FlagSet) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("loading %s: %w", envFile, err)
			}
		}
	}

	var err error

	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}

		value, found := os.LookupEnv(envName(f.Name))
		if !found {
			return
		}

		if setErr := flags.Set(f.Name, value); setErr != nil {
			err = fmt.Errorf("%s: %w", envName(f.Name), setErr)
		}
	})

	return err
}

func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}
