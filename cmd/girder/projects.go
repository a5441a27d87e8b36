package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:     "projects [key]",
	Short:   "Show the aggregated project tree (or one project)",
	GroupID: "views",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := girderClient.FetchTree(context.Background())
		if err != nil {
			return err
		}

		if len(args) == 1 {
			key := args[0]
			p, ok := tree[key]
			if !ok {
				return fmt.Errorf("no project with key %q", key)
			}
			if jsonOutput {
				printJSON(p)
				return nil
			}
			printProjectDetail(key, p)
			return nil
		}

		if jsonOutput {
			printJSON(tree)
			return nil
		}
		printTreeTable(tree)
		return nil
	},
}
