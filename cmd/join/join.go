// Package join handles the annual-return join command
package join

import (
	"fmt"

	"fjacquet/charity-mergers/cmd/common"
	"fjacquet/charity-mergers/cmd/root"
	"fjacquet/charity-mergers/internal/fileutils"
	"fjacquet/charity-mergers/internal/join"
	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/models"
	"fjacquet/charity-mergers/internal/parsererror"

	"github.com/spf13/cobra"
)

var (
	returnsFile  string
	trusteesFile string
	sideName     string
	yearOffset   int
	impact       bool
)

// Cmd represents the join command
var Cmd = &cobra.Command{
	Use:   "join",
	Short: "Join mergers with annual returns by charity number",
	Long: `Join matches one side of every merger with the annual return that charity
filed for the transfer year plus --offset. Only registered charity numbers
join. With --impact, the transferee's income and expenditure in the year
before and after the transfer are written instead.`,
	Args: cobra.NoArgs,
	RunE: joinFunc,
}

func init() {
	Cmd.Flags().StringVar(&returnsFile, "returns", "", "Annual returns JSON extract")
	Cmd.Flags().StringVar(&trusteesFile, "trustees", "", "Trustees JSON extract (optional)")
	Cmd.Flags().StringVar(&sideName, "side", string(models.SideTransferee), "Side to join (transferor, transferee)")
	Cmd.Flags().IntVar(&yearOffset, "offset", 0, "Financial year offset from the transfer year")
	Cmd.Flags().BoolVar(&impact, "impact", false, "Write transferee income before and after the transfer")
	_ = Cmd.MarkFlagRequired("returns")
}

func joinFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	side, ok := models.ParseSide(sideName)
	if !ok {
		return &parsererror.ValidationError{
			Subject: "--side",
			Reason:  fmt.Sprintf("%q is not transferor or transferee", sideName),
		}
	}
	if err := fileutils.RequireFile("returns", returnsFile); err != nil {
		return err
	}

	mergers, err := common.ReadRegister(c, root.SharedFlags.Input, root.Log)
	if err != nil {
		return err
	}
	returns, err := c.GetLoader().LoadReturnsFile(returnsFile)
	if err != nil {
		return err
	}
	index := join.NewReturnsIndex(returns)

	delim := c.GetConfig().DelimiterRune()
	output := root.SharedFlags.Output
	out := cmd.OutOrStdout()

	if impact {
		if trusteesFile != "" {
			root.Log.Warn("Ignoring --trustees with --impact")
		}
		rows := join.FinancialImpact(mergers, index)
		if output == "" {
			return common.WriteRows(out, "", join.ToImpactCSVRows(rows), delim, root.Log)
		}
		return join.WriteImpactFile(output, rows, delim, root.Log)
	}

	rows := join.JoinReturns(mergers, index, side, yearOffset)
	if trusteesFile != "" {
		if err := fileutils.RequireFile("trustees", trusteesFile); err != nil {
			return err
		}
		trustees, err := c.GetLoader().LoadTrusteesFile(trusteesFile)
		if err != nil {
			return err
		}
		join.AttachTrusteeCounts(rows, join.TrusteeCounts(trustees))
	}

	matched := 0
	for _, r := range rows {
		if r.Matched {
			matched++
		}
	}
	root.Log.Info("Joined annual returns",
		logging.Field{Key: logging.FieldSide, Value: string(side)},
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
		logging.Field{Key: "matched", Value: matched})

	if output == "" {
		return common.WriteRows(out, "", join.ToJoinedCSVRows(rows), delim, root.Log)
	}
	return join.WriteJoinedFile(output, rows, delim, root.Log)
}
