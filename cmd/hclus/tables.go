package main

import (
	"context"
	"fmt"
	"os"

	"github.com/drakos74/h-clus/internal/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	importCmd = &cobra.Command{
		Use:   "import [table] [file.csv]",
		Short: "Imports a csv file as a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTables(func(tables *table.Store) error {
				return importCSV(cmd.Context(), tables, args[0], args[1])
			})
		},
	}

	tablesCmd = &cobra.Command{
		Use:   "tables",
		Short: "Lists the stored tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTables(func(tables *table.Store) error {
				names, err := tables.Tables(cmd.Context())
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
)

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(tablesCmd)
}

func withTables(f func(tables *table.Store) error) error {
	db, err := openTables(cfg.Storage)
	if err != nil {
		return err
	}
	defer db.Close()
	return f(table.NewStore(db))
}

func importCSV(ctx context.Context, tables *table.Store, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open '%s': %w", path, err)
	}
	defer f.Close()

	t, err := table.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("could not import '%s': %w", path, err)
	}
	// reject content that cannot be clustered
	if _, err := t.Set(name); err != nil {
		return fmt.Errorf("could not import '%s': %w", path, err)
	}
	if err := tables.Put(ctx, name, t); err != nil {
		return err
	}
	log.Info().Str("table", name).Str("file", path).Int("rows", len(t.Rows)).Msg("imported table")
	return nil
}
