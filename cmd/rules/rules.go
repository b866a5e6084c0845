// Package rules handles the classification table command
package rules

import (
	"fmt"

	"fjacquet/charity-mergers/cmd/common"
	"fjacquet/charity-mergers/cmd/root"
	"fjacquet/charity-mergers/internal/store"

	"github.com/spf13/cobra"
)

var current bool

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Write the classification table for editing",
	Long: `Rules writes the embedded classification table as YAML so new patterns can
be added and loaded with --rules. With --current, the table currently in use
(including one loaded with --rules) is written instead.`,
	Args: cobra.NoArgs,
	RunE: rulesFunc,
}

func init() {
	Cmd.Flags().BoolVar(&current, "current", false, "Write the active table instead of the embedded default")
}

func rulesFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	output := root.SharedFlags.Output

	if !current {
		return common.WriteBytes(cmd.OutOrStdout(), output, store.DefaultRulesYAML())
	}

	if output == "" {
		return fmt.Errorf("--output is required with --current")
	}
	source := c.GetRules()
	table, err := source.LoadRules()
	if err != nil {
		return err
	}
	return source.SaveRules(output, table)
}
