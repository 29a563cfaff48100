package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/skdltmxn/nrbf-go/nrbf"
	"github.com/spf13/cobra"
)

var inspectDepth int

var inspectCmd = &cobra.Command{
	Use:   "inspect <nrbf-file>",
	Short: "Print a depth-limited tree view of an NRBF object graph",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().IntVarP(&inspectDepth, "depth", "d", 2, "maximum depth to descend (-1 for unbounded)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	opts, err := readerOptions(cmd)
	if err != nil {
		return err
	}

	root, err := nrbf.ReadFile(args[0], opts)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", args[0], err)
	}

	count := 0
	nrbf.Walk(root, inspectDepth, func(inst nrbf.Instance, depth int) bool {
		count++
		fmt.Fprintf(output, "%s%s\n", strings.Repeat("  ", depth), describeInstance(inst))
		return true
	})

	fmt.Fprintf(output, "\n%s instances visited\n", humanize.Comma(int64(count)))
	return nil
}

func describeInstance(inst nrbf.Instance) string {
	switch v := inst.(type) {
	case *nrbf.ClassInstance:
		return fmt.Sprintf("ClassInstance #%d %s (%d members)", v.ObjectId, v.Class.Name, len(v.Members))
	case *nrbf.PrimitiveArrayInstance:
		return fmt.Sprintf("PrimitiveArrayInstance #%d %s[%s]", v.ObjectId, v.ElementKind, humanize.Comma(int64(len(v.Values))))
	case *nrbf.ObjectArrayInstance:
		return fmt.Sprintf("ObjectArrayInstance #%d [%s]", v.ObjectId, humanize.Comma(int64(len(v.Values))))
	case *nrbf.StringArrayInstance:
		return fmt.Sprintf("StringArrayInstance #%d [%s]", v.ObjectId, humanize.Comma(int64(len(v.Values))))
	case *nrbf.BinaryArrayInstance:
		return fmt.Sprintf("BinaryArrayInstance #%d %s rank=%d", v.ObjectId, v.ArrayType, v.Rank)
	case *nrbf.StringInstance:
		return fmt.Sprintf("StringInstance #%d %q (%s)", v.ObjectId, truncate(v.Value, 60), humanize.Bytes(uint64(len(v.Value))))
	default:
		return fmt.Sprintf("%T", inst)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
