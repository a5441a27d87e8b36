package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check server health",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := girderClient.Health(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(status)
		return nil
	},
}
