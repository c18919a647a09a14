// Package main provides the atomcss CLI for compiling utility classes into a
// stylesheet.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errStrict) {
			fmt.Fprintf(os.Stderr, "%s %v\n", RenderStyle(StyleRed, "Error:", shouldUseColors(false)), err)
		}
		os.Exit(1)
	}
}
