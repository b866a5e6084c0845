// Package review handles the review-table command
package review

import (
	"fmt"

	"fjacquet/charity-mergers/cmd/common"
	"fjacquet/charity-mergers/cmd/root"
	"fjacquet/charity-mergers/internal/fileutils"
	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/review"
	"fjacquet/charity-mergers/internal/suggest"

	"github.com/spf13/cobra"
)

var withSuggestions bool

// Cmd represents the review command
var Cmd = &cobra.Command{
	Use:   "review",
	Short: "Write value counts of identities that need a human look",
	Long: `Review counts the Unknown and Classified(other) identities on each side of
the register and writes them as CSV or, for a .xlsx output, as a workbook with
one sheet per side. With --suggest, a Gemini model proposes a category for each
entry; suggestions never change an identity.`,
	Args: cobra.NoArgs,
	RunE: reviewFunc,
}

func init() {
	Cmd.Flags().BoolVar(&withSuggestions, "suggest", false, "Ask Gemini for a category suggestion per entry")
}

func reviewFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	mergers, err := common.ReadRegister(c, root.SharedFlags.Input, root.Log)
	if err != nil {
		return err
	}

	entries := review.BuildAll(mergers)
	if withSuggestions {
		suggester := c.GetSuggester()
		if suggester == nil {
			return fmt.Errorf("--suggest requires ai.enabled and GEMINI_API_KEY")
		}
		suggest.Annotate(cmd.Context(), suggester, entries, root.Log)
	}

	output := root.SharedFlags.Output
	switch fileutils.FormatFor(output, "csv", "csv", "xlsx") {
	case "xlsx":
		err = review.WriteXLSXFile(output, entries, root.Log)
	default:
		if output == "" {
			return review.WriteCSV(cmd.OutOrStdout(), entries, c.GetConfig().DelimiterRune())
		}
		err = review.WriteCSVFile(output, entries, c.GetConfig().DelimiterRune(), root.Log)
	}
	if err != nil {
		return err
	}
	root.Log.Info("Review tables written",
		logging.Field{Key: logging.FieldOutputFile, Value: output},
		logging.Field{Key: logging.FieldCount, Value: len(entries)})
	return nil
}
