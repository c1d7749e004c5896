package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pktflow/scenario"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a scenario file.",
	Long: "`validate --config [file]` reports every problem in a scenario " +
		"file. With --print, it writes the scenario with defaults filled in.",
	Run: func(cmd *cobra.Command, _ []string) {
		config, _ := cmd.Flags().GetString("config")
		printDefaults, _ := cmd.Flags().GetBool("print")

		err := validateScenario(cmd.OutOrStdout(), config, printDefaults)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("config", "c", "scenario.yaml",
		"The scenario file")
	validateCmd.Flags().Bool("print", false,
		"Print the scenario with defaults filled in")
}

func validateScenario(w io.Writer, config string, printDefaults bool) error {
	s, err := scenario.Load(config)
	if err != nil {
		return err
	}

	if printDefaults {
		data, err := s.Marshal()
		if err != nil {
			return err
		}

		_, err = w.Write(data)

		return err
	}

	fmt.Fprintf(w, "%s: scenario %s with %d link(s) is valid\n",
		config, s.Name, len(s.Links))

	return nil
}
