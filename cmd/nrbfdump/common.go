package main

import (
	"github.com/skdltmxn/nrbf-go/nrbf"
	"github.com/spf13/cobra"
)

// readerOptions builds nrbf.ReaderOptions from the persistent --permissive
// and --known-metadata flags shared by every subcommand.
func readerOptions(cmd *cobra.Command) (nrbf.ReaderOptions, error) {
	permissive, _ := cmd.Flags().GetBool("permissive")
	knownMetadataPath, _ := cmd.Flags().GetString("known-metadata")

	store := nrbf.NewDataStore()
	if knownMetadataPath != "" {
		if err := nrbf.LoadKnownMetadata(knownMetadataPath, store); err != nil {
			return nrbf.ReaderOptions{}, err
		}
	}

	return nrbf.ReaderOptions{Permissive: permissive, DataStore: store}, nil
}
