package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/arthur-debert/cargo-acap/internal/cli"
	"github.com/arthur-debert/cargo-acap/pkg/ui/styles"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	rootCmd := cli.NewRootCmd()
	rootCmd.SetArgs(cli.NormalizeArgs(os.Args[1:]))

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if cli.IsRendered(err) {
			os.Exit(1)
		}
		// Print the error in red
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
