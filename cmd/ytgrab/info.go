package main

import (
	"context"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <url>",
	Short: "Print video metadata and available formats as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  infoRun,
}

func infoRun(cmd *cobra.Command, args []string) error {
	c, err := newClient(nil)
	if err != nil {
		return printFailure(err)
	}
	info, err := c.GetInfo(context.Background(), args[0])
	if err != nil {
		return printFailure(err)
	}
	return printJSON(info)
}
