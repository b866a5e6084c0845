package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/charity-mergers/cmd/extract"
	"fjacquet/charity-mergers/cmd/identify"
	"fjacquet/charity-mergers/cmd/join"
	"fjacquet/charity-mergers/cmd/review"
	"fjacquet/charity-mergers/cmd/root"
	"fjacquet/charity-mergers/cmd/rules"
	"fjacquet/charity-mergers/cmd/stats"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(identify.Cmd)
	root.Cmd.AddCommand(extract.Cmd)
	root.Cmd.AddCommand(review.Cmd)
	root.Cmd.AddCommand(join.Cmd)
	root.Cmd.AddCommand(stats.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
