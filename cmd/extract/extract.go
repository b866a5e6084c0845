// Package extract handles the identified-register command
package extract

import (
	"fjacquet/charity-mergers/cmd/common"
	"fjacquet/charity-mergers/cmd/root"
	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/register"

	"github.com/spf13/cobra"
)

// Cmd represents the extract command
var Cmd = &cobra.Command{
	Use:   "extract",
	Short: "Write the register with charity identities",
	Long: `Extract reads the register of mergers and writes it back as CSV with the
identity kind and label of both transferor and transferee, ISO dates and the
registration gap in days.`,
	Args: cobra.NoArgs,
	RunE: extractFunc,
}

func extractFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	mergers, err := common.ReadRegister(c, root.SharedFlags.Input, root.Log)
	if err != nil {
		return err
	}

	delim := c.GetConfig().DelimiterRune()
	output := root.SharedFlags.Output
	if output == "" {
		return register.WriteIdentified(cmd.OutOrStdout(), mergers, delim)
	}
	if err := register.WriteIdentifiedFile(output, mergers, delim, root.Log); err != nil {
		return err
	}
	root.Log.Info("Extraction completed",
		logging.Field{Key: logging.FieldOutputFile, Value: output},
		logging.Field{Key: logging.FieldCount, Value: len(mergers)})
	return nil
}
