package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/carvallo/girder/internal/events"
	"github.com/carvallo/girder/internal/model"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Watch the project tree and print projects as they change",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		seen := make(map[string]string)

		// Initial fetch.
		if err := fetchAndPrint(ctx, seen); err != nil {
			return err
		}
		if once {
			return nil
		}

		// Event-driven when a NATS URL is known, otherwise poll.
		natsURL := os.Getenv("GIRDER_NATS_URL")
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return watchNATS(ctx, natsURL, seen)
		}
		return watchPoll(ctx, interval, seen)
	},
}

// watchNATS subscribes to mutation events and re-fetches on changes with
// debounce, so a burst of mutations results in one fetch.
func watchNATS(ctx context.Context, natsURL string, seen map[string]string) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-fetch for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("girder.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-fetch
		case <-debounce.C:
			if err := fetchAndPrint(ctx, seen); err != nil {
				return err
			}
		}
	}
}

// watchPoll re-fetches the tree at the given interval.
func watchPoll(ctx context.Context, interval time.Duration, seen map[string]string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := fetchAndPrint(ctx, seen); err != nil {
			return err
		}
	}
}

// fetchAndPrint fetches the tree, diffs against the seen map, and prints any
// projects that are new or changed.
func fetchAndPrint(ctx context.Context, seen map[string]string) error {
	tree, err := girderClient.FetchTree(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	changed := diffProjects(tree, seen)
	for _, key := range changed {
		if jsonOutput {
			printJSON(map[string]*model.Project{key: tree[key]})
		} else {
			fmt.Printf("--- %s @ %s ---\n", key, time.Now().Format("15:04:05"))
			printProjectDetail(key, tree[key])
			fmt.Println()
		}
	}
	return nil
}

// diffProjects compares each project's serialized form against the seen map
// and returns the keys that are new or different. It updates seen in place.
func diffProjects(tree model.Tree, seen map[string]string) []string {
	var changed []string
	for key, p := range tree {
		data, err := json.Marshal(p)
		if err != nil {
			continue
		}
		if prev, ok := seen[key]; !ok || prev != string(data) {
			changed = append(changed, key)
		}
		seen[key] = string(data)
	}
	sort.Strings(changed)
	return changed
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().Bool("once", false, "exit after first fetch")
}
