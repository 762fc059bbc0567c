package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/spreaddash-cli/internal/dataset"
	"github.com/KaramelBytes/spreaddash-cli/internal/snapshot"
	"github.com/KaramelBytes/spreaddash-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	exportDB   string
	exportJSON string
	exportCSV  string
)

// sessionDoc is the JSON shape of an exported session.
type sessionDoc struct {
	SessionID    string `json:"session_id"`
	Master       any    `json:"master"`
	Spreads      any    `json:"spreads"`
	Coefficients any    `json:"coefficients"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Load the datasets and export the session",
	Long: `Export loads every configured dataset and writes the session to any of:
a SQLite snapshot (--db), a JSON document (--json), or a re-serialized master CSV (--csv).
With no flags the snapshot is written to snapshot_path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dbPath := exportDB
		if dbPath == "" && exportJSON == "" && exportCSV == "" {
			dbPath = cfg.SnapshotPath
		}
		s, err := loadStore(ctx, allSources())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if dbPath != "" {
			if err := utils.EnsureParentDir(dbPath); err != nil {
				return fmt.Errorf("mkdir: %w", err)
			}
			db, err := snapshot.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open snapshot: %w", err)
			}
			defer db.Close()
			sess := snapshot.Session{
				ID:           s.SessionID,
				Master:       s.Master.Get(),
				Spreads:      s.Spreads.Get(),
				Coefficients: s.Coefficients.Get(),
			}
			if err := db.WriteSession(ctx, sess); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			n, err := db.SessionCounts(ctx, s.SessionID)
			if err != nil {
				return err
			}
			logger.Debug("snapshot written", "path", dbPath, "master", n.Master, "spreads", n.Spreads, "coefficients", n.Coefficients)
			fmt.Fprintf(out, "✓ Snapshot %s: %d master, %d spread, %d coefficient rows\n",
				s.SessionID, n.Master, n.Spreads, n.Coefficients)
		}
		if exportJSON != "" {
			b, err := utils.PrettyJSON(sessionDoc{
				SessionID:    s.SessionID,
				Master:       s.Master.Get(),
				Spreads:      s.Spreads.Get(),
				Coefficients: s.Coefficients.Get(),
			})
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(exportJSON, b); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %s\n", exportJSON)
		}
		if exportCSV != "" {
			var buf bytes.Buffer
			if err := dataset.WriteMasterCSV(&buf, s.Master.Get()); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(exportCSV, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %s\n", exportCSV)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDB, "db", "", "write a SQLite snapshot to this path")
	exportCmd.Flags().StringVar(&exportJSON, "json", "", "write the session as JSON to this path")
	exportCmd.Flags().StringVar(&exportCSV, "csv", "", "write the master panel as CSV to this path")
}
