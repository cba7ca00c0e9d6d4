package main

import (
	"context"

	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats <url>",
	Short: "Print the available formats as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  formatsRun,
}

func formatsRun(cmd *cobra.Command, args []string) error {
	c, err := newClient(nil)
	if err != nil {
		return printFailure(err)
	}
	formats, err := c.GetFormats(context.Background(), args[0])
	if err != nil {
		return printFailure(err)
	}
	return printJSON(formats)
}
