package main

import (
	"context"
	"fmt"

	"github.com/carvallo/girder/internal/dashboard"
	"github.com/spf13/cobra"
)

var cashflowCmd = &cobra.Command{
	Use:     "cashflow",
	Short:   "Create, update, or delete cashflow entries",
	GroupID: "mutations",
}

var cashflowCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a cashflow entry in a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := dashboard.CashflowInput{}
		in.ProjectKey, _ = cmd.Flags().GetString("project")
		in.Concept, _ = cmd.Flags().GetString("concept")
		in.Date, _ = cmd.Flags().GetString("date")
		in.Type, _ = cmd.Flags().GetString("type")
		in.Currency, _ = cmd.Flags().GetString("currency")
		in.Counterparty, _ = cmd.Flags().GetString("counterparty")
		in.Status, _ = cmd.Flags().GetString("status")
		in.Notes, _ = cmd.Flags().GetString("notes")
		in.RelatedTask, _ = cmd.Flags().GetString("task")
		if cmd.Flags().Changed("amount") {
			v, _ := cmd.Flags().GetFloat64("amount")
			in.Amount = &v
		}

		entry, err := girderClient.CreateCashflow(context.Background(), in)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(entry)
			return nil
		}
		fmt.Printf("Created cashflow entry %s\n", entry.ID)
		printCashflowEntry(entry)
		return nil
	},
}

var cashflowUpdateCmd = &cobra.Command{
	Use:   "update <record-id>",
	Short: "Update fields on a cashflow entry (only supplied flags are sent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := dashboard.CashflowPatch{}
		setIfChanged := func(flag string, dst **string) {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				*dst = &v
			}
		}
		setIfChanged("project", &patch.ProjectKey)
		setIfChanged("concept", &patch.Concept)
		setIfChanged("date", &patch.Date)
		setIfChanged("type", &patch.Type)
		setIfChanged("currency", &patch.Currency)
		setIfChanged("counterparty", &patch.Counterparty)
		setIfChanged("status", &patch.Status)
		setIfChanged("notes", &patch.Notes)
		setIfChanged("task", &patch.RelatedTask)
		if cmd.Flags().Changed("amount") {
			v, _ := cmd.Flags().GetFloat64("amount")
			patch.Amount = &v
		}

		entry, err := girderClient.UpdateCashflow(context.Background(), args[0], patch)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(entry)
			return nil
		}
		fmt.Printf("Updated cashflow entry %s\n", entry.ID)
		printCashflowEntry(entry)
		return nil
	},
}

var cashflowDeleteCmd = &cobra.Command{
	Use:   "delete <record-id>",
	Short: "Delete a cashflow entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		del, err := girderClient.DeleteCashflow(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(del)
			return nil
		}
		fmt.Printf("Deleted cashflow entry %s\n", del.ID)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{cashflowCreateCmd, cashflowUpdateCmd} {
		c.Flags().String("project", "", "project key (required on create)")
		c.Flags().String("concept", "", "entry concept")
		c.Flags().String("date", "", "entry date (YYYY-MM-DD)")
		c.Flags().String("type", "", "entry type (in/out)")
		c.Flags().Float64("amount", 0, "amount")
		c.Flags().String("currency", "", "currency code")
		c.Flags().String("counterparty", "", "counterparty name")
		c.Flags().String("status", "", "entry status")
		c.Flags().String("notes", "", "free-form notes")
		c.Flags().String("task", "", "related task record ID")
	}
	cashflowCmd.AddCommand(cashflowCreateCmd)
	cashflowCmd.AddCommand(cashflowUpdateCmd)
	cashflowCmd.AddCommand(cashflowDeleteCmd)
}
