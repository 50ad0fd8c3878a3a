package cmd

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate outage statistics from recorded history",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	svc, _, closeFn, err := buildService("stats")
	if err != nil {
		return err
	}
	defer closeFn()
	return svc.PrintStats(printer())
}
