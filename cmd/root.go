package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienpequegnot/bannergen/internal/ui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bannergen",
	Short: "Generate blog banners from your posts",
	Long: `Bannergen reads a blog post, asks OpenAI for image prompts, lets you
pick the ones you like and renders them as banners with DeepAI.

Pipeline: post → prompts → selection → banners`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var rootVerbose bool

func init() {
	rootCmd.Version = "0.1.0"
	rootCmd.PersistentFlags().BoolVar(&rootVerbose, "verbose", false, "Show debug logs on the console")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, ui.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "Exiting...")
			return
		}
		fmt.Fprintln(os.Stderr, ui.Failure(err.Error()))
		stop()
		os.Exit(1)
	}
}
