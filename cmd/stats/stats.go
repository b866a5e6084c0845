// Package stats handles the register statistics command
package stats

import (
	"fmt"

	"fjacquet/charity-mergers/cmd/common"
	"fjacquet/charity-mergers/cmd/root"
	"fjacquet/charity-mergers/internal/fileutils"
	"fjacquet/charity-mergers/internal/parsererror"
	"fjacquet/charity-mergers/internal/report"
	"fjacquet/charity-mergers/internal/stats"

	"github.com/spf13/cobra"
)

var (
	format string
	top    int
)

// Cmd represents the stats command
var Cmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute merger statistics for the register",
	Long: `Stats computes mergers per year, the registration gap summary, the identity
kind breakdown and the most frequent transferor and transferee labels, and
writes them as a JSON or XML report.`,
	Args: cobra.NoArgs,
	RunE: statsFunc,
}

func init() {
	Cmd.Flags().StringVar(&format, "format", "", "Report format (json, xml); default from the output extension")
	Cmd.Flags().IntVar(&top, "top", 0, "Number of labels in the top tables (default: review.top)")
}

func statsFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	output := root.SharedFlags.Output
	reportFormat := format
	if reportFormat == "" {
		reportFormat = fileutils.FormatFor(output, report.FormatJSON, report.FormatJSON, report.FormatXML)
	}
	if reportFormat != report.FormatJSON && reportFormat != report.FormatXML {
		return &parsererror.ValidationError{
			Subject: "--format",
			Reason:  fmt.Sprintf("unsupported output format %q, must be json or xml", reportFormat),
		}
	}
	n := top
	if n <= 0 {
		n = c.GetConfig().Review.Top
	}

	mergers, err := common.ReadRegister(c, root.SharedFlags.Input, root.Log)
	if err != nil {
		return err
	}
	summary := stats.Compute(mergers, n)
	summary.Source = root.SharedFlags.Input

	generator := c.GetReportGenerator()
	if output == "" {
		return generator.Write(cmd.OutOrStdout(), &summary, reportFormat)
	}
	return generator.WriteFile(output, &summary, reportFormat)
}
