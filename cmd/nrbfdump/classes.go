package main

import (
	"fmt"
	"sort"

	"github.com/skdltmxn/nrbf-go/nrbf"
	"github.com/spf13/cobra"
)

var classesCmd = &cobra.Command{
	Use:   "classes <nrbf-file>",
	Short: "List the distinct class schemas referenced by an NRBF stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runClasses,
}

func runClasses(cmd *cobra.Command, args []string) error {
	opts, err := readerOptions(cmd)
	if err != nil {
		return err
	}

	root, err := nrbf.ReadFile(args[0], opts)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", args[0], err)
	}

	seen := make(map[string]*nrbf.ClassObject)
	nrbf.Walk(root, -1, func(inst nrbf.Instance, depth int) bool {
		if ci, ok := inst.(*nrbf.ClassInstance); ok {
			key := ci.Class.Library.Key() + "/" + ci.Class.Name
			seen[key] = ci.Class
		}
		return true
	})

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		class := seen[k]
		fmt.Fprintf(output, "%s (library=%s, partial=%v, valueType=%v)\n",
			class.Name, class.Library.Name, class.Partial, class.ValueType)
		for _, m := range class.Members {
			fmt.Fprintf(output, "  %-20s %s\n", m.Name, m.BinaryType)
		}
	}
	return nil
}
