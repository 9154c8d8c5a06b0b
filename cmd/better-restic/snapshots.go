package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/fgeck/better-restic/internal/models"
	"github.com/fgeck/better-restic/internal/services/restic"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List snapshots in the configured repository",
	RunE:  listSnapshots,
}

func listSnapshots(cmd *cobra.Command, args []string) error {
	cfg, closer, err := loadConfig()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	raw, err := restic.New(log.Logger).Snapshots(ctx, cfg.Restic)
	if err != nil {
		log.Error().Err(err).Msg("failed to list snapshots")
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tHOST\tPATHS")
	for _, entry := range raw {
		snap, err := models.DecodeSnapshot(entry)
		if err != nil {
			log.Warn().Err(err).Msg("skipping unreadable snapshot entry")
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			snap.ShortID,
			snap.Time.Local().Format("2006-01-02 15:04:05"),
			snap.Hostname,
			strings.Join(snap.Paths, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d snapshot(s)\n", len(raw))
	return nil
}
