package cmd

import (
	"fmt"

	"github.com/DaniruKun/cascadecam/wincap"
	"github.com/spf13/cobra"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List the titles of open windows",
	Long:  `Lists every visible top-level window with a title, for use with --window.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		windows, err := wincap.ListWindows(wincap.DefaultBackend())
		if err != nil {
			return err
		}
		for _, w := range windows {
			fmt.Fprintf(cmd.OutOrStdout(), "%#x %s\n", w.ID, w.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(windowsCmd)
}
