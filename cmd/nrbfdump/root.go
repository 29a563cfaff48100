package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	outputFile string
	output     io.Writer
)

var rootCmd = &cobra.Command{
	Use:   "nrbfdump",
	Short: "NRBF (.NET Remoting Binary Format) stream inspector",
	Long: `nrbfdump is a command-line tool for decoding and inspecting .NET
Remoting Binary Format (NRBF) messages.

It can dump an object graph as text or JSON, walk it to a bounded depth,
and list the class schemas a stream references.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = os.Stdout
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().String("known-metadata", "", "TOML file pre-registering partial class schemas")
	rootCmd.PersistentFlags().Bool("permissive", false, "relax strict decode checks (negative lengths, header version)")

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(classesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
