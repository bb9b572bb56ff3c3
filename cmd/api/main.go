package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "api",
		Short:        "Appointment availability and booking API",
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newCheckConfigCmd(),
		newHashPasswordCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
