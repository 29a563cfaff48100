package main

import (
	"fmt"
	"time"

	"github.com/relvacode/iso8601"
	"github.com/segmentio/encoding/json"
	"github.com/skdltmxn/nrbf-go/nrbf"
	"github.com/spf13/cobra"
)

var (
	dumpFormat string
	dumpSince  string
	dumpUntil  string
)

var dumpCmd = &cobra.Command{
	Use:   "dump <nrbf-file>",
	Short: "Dump a decoded NRBF object graph",
	Long: `Dump the full object graph decoded from an NRBF stream.

Supported formats:
  - text: human-readable, one line per instance (default)
  - json: structured JSON`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "text", "output format (text, json)")
	dumpCmd.Flags().StringVar(&dumpSince, "since", "", "only show class instances with a DateTime member on or after this ISO-8601 timestamp")
	dumpCmd.Flags().StringVar(&dumpUntil, "until", "", "only show class instances with a DateTime member on or before this ISO-8601 timestamp")
}

func runDump(cmd *cobra.Command, args []string) error {
	opts, err := readerOptions(cmd)
	if err != nil {
		return err
	}

	var since, until time.Time
	var hasSince, hasUntil bool
	if dumpSince != "" {
		since, err = iso8601.ParseString(dumpSince)
		if err != nil {
			return fmt.Errorf("invalid --since timestamp: %w", err)
		}
		hasSince = true
	}
	if dumpUntil != "" {
		until, err = iso8601.ParseString(dumpUntil)
		if err != nil {
			return fmt.Errorf("invalid --until timestamp: %w", err)
		}
		hasUntil = true
	}

	root, err := nrbf.ReadFile(args[0], opts)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", args[0], err)
	}

	matches := func(inst nrbf.Instance) bool {
		if !hasSince && !hasUntil {
			return true
		}
		ci, ok := inst.(*nrbf.ClassInstance)
		if !ok {
			return false
		}
		for _, m := range ci.Members {
			dt, ok := m.(*nrbf.DateTimeValue)
			if !ok {
				continue
			}
			t := dt.Time()
			if hasSince && t.Before(since) {
				continue
			}
			if hasUntil && t.After(until) {
				continue
			}
			return true
		}
		return false
	}

	switch dumpFormat {
	case "json":
		return dumpJSON(root, matches)
	case "text":
		return dumpText(root, matches)
	default:
		return fmt.Errorf("unknown format: %s", dumpFormat)
	}
}

// dumpNode is the JSON-serializable shadow of an Instance, flattened by Walk.
type dumpNode struct {
	Depth int    `json:"depth"`
	Kind  string `json:"kind"`
	Brief string `json:"brief"`
}

func dumpJSON(root nrbf.Instance, matches func(nrbf.Instance) bool) error {
	var nodes []dumpNode
	nrbf.Walk(root, -1, func(inst nrbf.Instance, depth int) bool {
		if matches(inst) {
			nodes = append(nodes, dumpNode{Depth: depth, Kind: fmt.Sprintf("%T", inst), Brief: describeInstance(inst)})
		}
		return true
	})

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(nodes)
}

func dumpText(root nrbf.Instance, matches func(nrbf.Instance) bool) error {
	nrbf.Walk(root, -1, func(inst nrbf.Instance, depth int) bool {
		if matches(inst) {
			fmt.Fprintf(output, "%*s%s\n", depth*2, "", describeInstance(inst))
		}
		return true
	})
	return nil
}
