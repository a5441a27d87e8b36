package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/carvallo/girder/internal/model"
	"github.com/carvallo/girder/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printTreeTable(tree model.Tree) {
	keys := make([]string, 0, len(tree))
	for k := range tree {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tSTATUS\tCLIENT\tTASKS\tTEAM\tCASHFLOW")
	for _, k := range keys {
		p := tree[k]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			k, p.Name, p.Status, p.Client, len(p.Tasks), len(p.Team), len(p.Cashflow))
	}
	w.Flush()
	fmt.Printf("\n%d projects\n", len(keys))
}

func printProjectDetail(key string, p *model.Project) {
	fmt.Println(ui.RenderAccent(key) + "  " + p.Name)
	if p.Subtitle != "" {
		fmt.Println(ui.RenderMuted(p.Subtitle))
	}
	fmt.Printf("Status:   %s\n", p.Status)
	fmt.Printf("Client:   %s\n", p.Client)
	if p.Amount != "" {
		fmt.Printf("Amount:   %s\n", p.Amount)
	}
	if p.PM != "" {
		fmt.Printf("PM:       %s\n", p.PM)
	}
	if p.GanttStart != nil && p.GanttEnd != nil {
		fmt.Printf("Gantt:    %s .. %s\n", *p.GanttStart, *p.GanttEnd)
	}

	if len(p.Tasks) > 0 {
		fmt.Println()
		fmt.Println(ui.RenderAccent("Tasks:"))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tNAME\tOWNER\tSTATUS\tPROGRESS\tSTART\tEND")
		for _, t := range p.Tasks {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%.0f%%\t%s\t%s\n",
				t.ID, t.Name, t.Owner, t.Status, t.Progress, t.StartDate, t.EndDate)
		}
		w.Flush()
	}

	if len(p.Team) > 0 {
		fmt.Println()
		fmt.Println(ui.RenderAccent("Team:"))
		for _, m := range p.Team {
			fmt.Printf("  %s (%s) %s\n", m.Name, m.Initials, ui.RenderMuted(m.Role))
		}
	}

	if len(p.Critical) > 0 {
		fmt.Println()
		fmt.Println(ui.RenderWarn("Critical:"))
		for _, item := range p.Critical {
			fmt.Printf("  - %s\n", item)
		}
	}

	if len(p.Cashflow) > 0 {
		fmt.Println()
		fmt.Println(ui.RenderAccent("Cashflow:"))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tCONCEPT\tDATE\tTYPE\tAMOUNT\tCURRENCY\tSTATUS")
		for _, e := range p.Cashflow {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
				e.ID, e.Concept, e.Date, e.Type, e.Amount, e.Currency, e.Status)
		}
		w.Flush()
	}
}

func printTask(t *model.Task) {
	fmt.Printf("ID:        %s\n", t.ID)
	fmt.Printf("Name:      %s\n", t.Name)
	if t.Description != "" {
		fmt.Printf("Desc:      %s\n", t.Description)
	}
	fmt.Printf("Owner:     %s\n", t.Owner)
	fmt.Printf("Status:    %s\n", t.Status)
	fmt.Printf("Progress:  %.0f%%\n", t.Progress)
	if t.StartDate != "" || t.EndDate != "" {
		fmt.Printf("Dates:     %s .. %s\n", t.StartDate, t.EndDate)
	}
}

func printCashflowEntry(e *model.CashflowEntry) {
	fmt.Printf("ID:           %s\n", e.ID)
	fmt.Printf("Concept:      %s\n", e.Concept)
	fmt.Printf("Date:         %s\n", e.Date)
	fmt.Printf("Type:         %s\n", e.Type)
	fmt.Printf("Amount:       %.2f %s\n", e.Amount, e.Currency)
	if e.Counterparty != "" {
		fmt.Printf("Counterparty: %s\n", e.Counterparty)
	}
	if e.Status != "" {
		fmt.Printf("Status:       %s\n", e.Status)
	}
	if e.Notes != "" {
		fmt.Printf("Notes:        %s\n", e.Notes)
	}
}
