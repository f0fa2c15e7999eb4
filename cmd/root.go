/*
Copyright © 2022 Daniils Petrovs <thedanpetrov@gmail.com>

*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/DaniruKun/cascadecam/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cascadecam",
	Short: "Cascade Cam",
	Long: `Captures a desktop window, runs an object detector on every frame and shows
the annotated result. Press d or f to save the raw frame as a positive or
negative training sample, q to quit.`,
	SilenceUsage: true,
	RunE:         run,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd.Flags())
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log diagnostics to stderr")
}
