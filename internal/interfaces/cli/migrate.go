package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/PatentBot-AI/internal/infrastructure/database/postgres"
	"github.com/turtacn/PatentBot-AI/pkg/errors"
)

// migrationStatus is the output of "migrate status".
type migrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (s migrationStatus) String() string {
	if s.Dirty {
		return fmt.Sprintf("schema version %d (dirty: fix the failed migration, then run `migrate force %d`)", s.Version, s.Version)
	}
	return fmt.Sprintf("schema version %d", s.Version)
}

func (s migrationStatus) TableHeaders() []string { return []string{"Version", "Dirty"} }

func (s migrationStatus) TableRows() [][]string {
	return [][]string{{strconv.FormatUint(uint64(s.Version), 10), strconv.FormatBool(s.Dirty)}}
}

// NewMigrateCmd manages the database schema.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return errors.InvalidParam("--steps must be at least 1")
			}
			dbURL, path, err := migrationTarget(cmd)
			if err != nil {
				return err
			}
			if err := postgres.RollbackMigration(dbURL, path, steps); err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("rolled back %d migration(s)", steps))
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				dbURL, path, err := migrationTarget(cmd)
				if err != nil {
					return err
				}
				if err := postgres.RunMigrations(dbURL, path); err != nil {
					return err
				}
				PrintSuccess(cmd, "migrations applied")
				return nil
			},
		},
		down,
		&cobra.Command{
			Use:   "status",
			Short: "Show the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				dbURL, path, err := migrationTarget(cmd)
				if err != nil {
					return err
				}
				version, dirty, err := postgres.MigrationStatus(dbURL, path)
				if err != nil {
					return err
				}
				return PrintResult(cmd, migrationStatus{Version: version, Dirty: dirty})
			},
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return errors.InvalidParam(fmt.Sprintf("invalid version %q", args[0]))
				}
				dbURL, path, err := migrationTarget(cmd)
				if err != nil {
					return err
				}
				if err := postgres.ForceMigrationVersion(dbURL, path, version); err != nil {
					return err
				}
				PrintSuccess(cmd, fmt.Sprintf("schema version forced to %d", version))
				return nil
			},
		},
	)
	return cmd
}

func migrationTarget(cmd *cobra.Command) (string, string, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return "", "", err
	}
	db := cliCtx.Config.Database
	return postgres.MigrationURL(db), db.MigrationsPath, nil
}
