package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperjump/crime360/internal/config"
	"github.com/hyperjump/crime360/internal/store"
)

var (
	importDB   string
	importSeed string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy a seed snapshot into a SQLite database",
	Long: `Load records from a seed file (or the built-in seed) and replace the contents
of a SQLite database with them. Point seed.source at sqlite to serve from it.

Examples:
  crime360 import --db ./crime360.db
  crime360 import --seed ./records.yaml --db ./crime360.db`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importDB, "db", "", "database path (default seed.database_path)")
	importCmd.Flags().StringVar(&importSeed, "seed", "", "seed file to import (default built-in seed)")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dbPath := importDB
	if dbPath == "" {
		dbPath = cfg.Seed.DatabasePath
	}
	if dbPath == "" {
		return errors.New("no database path: pass --db or set seed.database_path")
	}

	seed := &config.SeedConfig{Source: store.SourceBuiltin}
	if importSeed != "" {
		seed = &config.SeedConfig{Source: store.SourceFile, Path: importSeed}
	}
	src, err := store.NewSource(seed)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	snap, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", src.Describe(), err)
	}

	db, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Import(ctx, snap); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d incidents and %d persons from %s into %s\n",
		len(snap.Incidents()), len(snap.Persons()), src.Describe(), dbPath)
	return nil
}
