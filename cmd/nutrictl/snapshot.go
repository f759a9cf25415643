package main

import (
	"fmt"

	"github.com/fdg312/nutrition-hub/internal/blob"
	"github.com/fdg312/nutrition-hub/internal/snapshots"
	"github.com/spf13/cobra"
)

var snapshotFormat string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export every entity to the blob store",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		blobStore, mode, err := blob.NewBlobStore(e.cfg.Blob, e.logger)
		if err != nil {
			return fmt.Errorf("blob store: %w", err)
		}

		result, err := snapshots.NewService(e.store, blobStore, e.logger).WithPresignTTL(e.cfg.Blob.S3.PresignTTLSeconds).Export(cmd.Context(), snapshotFormat)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Stored: %s (%s, %d bytes)\n", result.Key, mode, result.Size)
		if result.URL != "" {
			fmt.Fprintf(out, "URL: %s\n", result.URL)
		}
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotFormat, "format", snapshots.FormatJSON, "Snapshot format: json or yaml")
	rootCmd.AddCommand(snapshotCmd)
}
