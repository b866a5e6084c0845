// Package identify handles the single-name identification command
package identify

import (
	"fmt"

	"fjacquet/charity-mergers/cmd/root"

	"github.com/spf13/cobra"
)

var (
	name    string
	explain bool
)

// Cmd represents the identify command
var Cmd = &cobra.Command{
	Use:   "identify",
	Short: "Identify the charity behind one register name",
	Long: `Identify prints the charity identity derived from a single transferor or
transferee name: a registered charity number, a category for charities without
a number, or the unmatched residue.`,
	Args: cobra.NoArgs,
	RunE: identifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&name, "name", "n", "", "Register name to identify")
	Cmd.Flags().BoolVar(&explain, "explain", false, "Show how the identity was derived")
	_ = Cmd.MarkFlagRequired("name")
}

func identifyFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	extractor := c.GetExtractor()
	out := cmd.OutOrStdout()

	if explain {
		_, err = fmt.Fprint(out, extractor.Explain(name).String())
		return err
	}
	_, err = fmt.Fprintln(out, extractor.Extract(name).String())
	return err
}
