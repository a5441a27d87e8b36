package main

import (
	"context"
	"fmt"

	"github.com/carvallo/girder/internal/dashboard"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Short:   "Create, update, or delete tasks",
	GroupID: "mutations",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task in a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := dashboard.TaskInput{}
		in.ProjectKey, _ = cmd.Flags().GetString("project")
		in.Name, _ = cmd.Flags().GetString("name")
		in.Description, _ = cmd.Flags().GetString("description")
		in.Owner, _ = cmd.Flags().GetString("owner")
		in.Status, _ = cmd.Flags().GetString("status")
		in.StartDate, _ = cmd.Flags().GetString("start")
		in.EndDate, _ = cmd.Flags().GetString("end")
		if cmd.Flags().Changed("progress") {
			v, _ := cmd.Flags().GetFloat64("progress")
			in.Progress = &v
		}

		task, err := girderClient.CreateTask(context.Background(), in)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(task)
			return nil
		}
		fmt.Printf("Created task %s\n", task.ID)
		printTask(task)
		return nil
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <record-id>",
	Short: "Update fields on a task (only supplied flags are sent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := dashboard.TaskPatch{}
		setIfChanged := func(flag string, dst **string) {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				*dst = &v
			}
		}
		setIfChanged("project", &patch.ProjectKey)
		setIfChanged("name", &patch.Name)
		setIfChanged("description", &patch.Description)
		setIfChanged("owner", &patch.Owner)
		setIfChanged("status", &patch.Status)
		setIfChanged("start", &patch.StartDate)
		setIfChanged("end", &patch.EndDate)
		if cmd.Flags().Changed("progress") {
			v, _ := cmd.Flags().GetFloat64("progress")
			patch.Progress = &v
		}

		task, err := girderClient.UpdateTask(context.Background(), args[0], patch)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(task)
			return nil
		}
		fmt.Printf("Updated task %s\n", task.ID)
		printTask(task)
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <record-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		del, err := girderClient.DeleteTask(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(del)
			return nil
		}
		fmt.Printf("Deleted task %s\n", del.ID)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{taskCreateCmd, taskUpdateCmd} {
		c.Flags().String("project", "", "project key (required on create)")
		c.Flags().String("name", "", "task name")
		c.Flags().String("description", "", "task description")
		c.Flags().String("owner", "", "task owner")
		c.Flags().String("status", "", "task status")
		c.Flags().Float64("progress", 0, "progress percentage")
		c.Flags().String("start", "", "start date (YYYY-MM-DD)")
		c.Flags().String("end", "", "end date (YYYY-MM-DD)")
	}
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}
