// Package service implements the blog command line: serving the site and
// maintaining its badger database.
package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/zidan444/blog-app/app/config"
	"github.com/zidan444/blog-app/app/repositories"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
	appName = "blog"

	defaultBackupDir = "data/backups"
)

// cli carries the streams and environment every subcommand works against.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	getenv func(string) string

	configPath string
	cfg        *config.Config
}

// Execute runs the blog command line against the process streams and
// returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{in: os.Stdin, out: os.Stdout, errOut: os.Stderr, getenv: os.Getenv}
	return c.run(ctx, os.Args[1:])
}

func (c *cli) run(ctx context.Context, args []string) int {
	root := c.rootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(c.errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "A server-rendered blog with accounts, posts, likes and comments",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithEnv(c.configPath, c.getenv)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}
	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to a YAML config file")

	root.AddCommand(
		c.serveCommand(),
		c.initCommand(),
		c.cleanCommand(),
		c.backupCommand(),
		c.restoreCommand(),
		c.versionCommand(),
	)
	return root
}

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blog web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunAppServer(cmd.Context(), c.cfg, c.logger())
		},
	}
}

func (c *cli) initCommand() *cobra.Command {
	var configOut string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configOut != "" {
				if err := c.cfg.SaveToFile(configOut); err != nil {
					return err
				}
				c.success("Configuration written to %s", configOut)
			}

			dbPath, err := c.databasePath()
			if err != nil {
				return err
			}
			if exists(dbPath) {
				c.warn("Database already exists. Use 'clean' first if you want to reinitialize.")
				return nil
			}
			if err := os.MkdirAll(dbPath, 0o755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
			store, err := repositories.NewStore(dbPath, nil)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			if err := store.Close(); err != nil {
				return err
			}
			if err := os.MkdirAll(c.cfg.Uploads.Dir, 0o755); err != nil {
				return fmt.Errorf("failed to create uploads directory: %w", err)
			}
			c.success("Database initialized successfully at %s", dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&configOut, "write-config", "", "Also write the effective configuration to this YAML file")
	return cmd
}

func (c *cli) cleanCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the database and uploaded images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := c.databasePath()
			if err != nil {
				return err
			}
			if !exists(dbPath) {
				c.info("Database is already clean (does not exist)")
				return nil
			}
			if !yes && !c.confirm("Are you sure you want to clean the database? This cannot be undone.") {
				c.info("Operation cancelled")
				return nil
			}
			if err := os.RemoveAll(dbPath); err != nil {
				return fmt.Errorf("failed to clean database: %w", err)
			}
			if err := os.RemoveAll(c.cfg.Uploads.Dir); err != nil {
				return fmt.Errorf("failed to clean uploads: %w", err)
			}
			c.success("Database cleaned successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (c *cli) backupCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := c.databasePath()
			if err != nil {
				return err
			}
			if !exists(dbPath) {
				return errors.New("no database exists to backup")
			}
			if out == "" {
				out = filepath.Join(defaultBackupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("failed to create backup directory: %w", err)
			}

			store, err := repositories.NewStore(dbPath, nil)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create backup file: %w", err)
			}

			if _, err := store.Backup(f); err != nil {
				f.Close()
				return fmt.Errorf("failed to backup database: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write backup file: %w", err)
			}
			c.success("Database backed up successfully to %s", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Backup file (default data/backups/backup_<unix>.db)")
	return cmd
}

func (c *cli) restoreCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the database from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backupFile := args[0]
			fi, err := os.Stat(backupFile)
			if err != nil {
				return fmt.Errorf("backup file does not exist: %s", backupFile)
			}
			if fi.Size() == 0 {
				return fmt.Errorf("backup file is empty: %s", backupFile)
			}

			dbPath, err := c.databasePath()
			if err != nil {
				return err
			}
			if exists(dbPath) {
				if !yes && !c.confirm("Existing database found. Do you want to replace it?") {
					c.info("Operation cancelled")
					return nil
				}
				if err := os.RemoveAll(dbPath); err != nil {
					return fmt.Errorf("failed to remove existing database: %w", err)
				}
			}
			if err := os.MkdirAll(dbPath, 0o755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}

			f, err := os.Open(backupFile)
			if err != nil {
				return fmt.Errorf("failed to open backup file: %w", err)
			}
			defer f.Close()

			store, err := repositories.NewStore(dbPath, nil)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()

			if err := store.Restore(f); err != nil {
				return fmt.Errorf("failed to restore database: %w", err)
			}
			c.success("Database restored successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace an existing database without asking")
	return cmd
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.out, "%s version %s\n", appName, Version)
		},
	}
}

func (c *cli) logger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: c.cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return logger
}

// confirm asks a y/N question on the command streams.
func (c *cli) confirm(question string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", question)
	scanner := bufio.NewScanner(c.in)
	if !scanner.Scan() {
		fmt.Fprintln(c.out)
		return false
	}
	answer := strings.TrimSpace(scanner.Text())
	return answer == "y" || answer == "Y"
}

func (c *cli) success(format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(c.out, format+"\n", args...)
}

func (c *cli) warn(format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(c.out, format+"\n", args...)
}

func (c *cli) info(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// databasePath is the on-disk database the maintenance commands operate on.
func (c *cli) databasePath() (string, error) {
	if c.cfg.Database.Path == "" {
		return "", errors.New("database.path is empty; the in-memory database has nothing to maintain")
	}
	return c.cfg.Database.Path, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
