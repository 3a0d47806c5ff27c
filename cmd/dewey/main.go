package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbaille/dewey/internal/api"
	"github.com/pbaille/dewey/internal/config"
	"github.com/pbaille/dewey/internal/daily"
	"github.com/pbaille/dewey/internal/domain"
	"github.com/pbaille/dewey/internal/hierarchy"
	"github.com/pbaille/dewey/internal/logging"
	"github.com/pbaille/dewey/internal/store"
)

var (
	configPath string
	dbPath     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "dewey",
		Short:        "A different classification section every day",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(todayCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(divisionsCmd())
	rootCmd.AddCommand(sectionsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	return cfg, nil
}

func getStore(cfg *config.Config) (*store.Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.DatabasePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(cfg.DatabasePath)
}

// loadService reads the whole hierarchy once; the store is not needed afterwards.
func loadService(cfg *config.Config, logger *zap.Logger) (*daily.Service, error) {
	s, err := getStore(cfg)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	entries, err := s.LoadEntries()
	if err != nil {
		return nil, err
	}

	h, err := hierarchy.New(entries)
	if err != nil {
		return nil, err
	}
	logger.Info("hierarchy loaded",
		zap.String("db", cfg.DatabasePath),
		zap.Int("sections", h.Len()))

	return daily.NewService(h, logger)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			defer logger.Sync()

			svc, err := loadService(cfg, logger)
			if err != nil {
				logger.Error("cannot start", zap.Error(err))
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.New(svc, cfg.Addr, logger)
			server.ShutdownTimeout = cfg.ShutdownTimeout
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8000", "server address")
	return cmd
}

func todayCmd() *cobra.Command {
	var (
		date string
		hour int
		hint int
		full bool
	)

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Print the daily section as the API would serve it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			svc, err := loadService(cfg, zap.NewNop())
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			day := now
			if date != "" {
				day, err = time.Parse(domain.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid date: %w", err)
				}
			}
			if !cmd.Flags().Changed("hour") {
				hour = now.Hour()
			}

			var opts daily.RevealOptions
			if cmd.Flags().Changed("hint") {
				opts.Hint = &hint
			}
			opts.Full = full

			resp, err := svc.Build(day, hour, opts)
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "calendar date YYYY-MM-DD (default today, UTC)")
	cmd.Flags().IntVar(&hour, "hour", 0, "UTC hour of day 0-23 (default now)")
	cmd.Flags().IntVar(&hint, "hint", 0, "hint level 1-3")
	cmd.Flags().BoolVar(&full, "full", false, "reveal everything the API can show")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [code]",
		Short: "Show a section with its division and class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			s, err := getStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			e, err := s.GetSection(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Class:    %s  %s\n", e.ClassCode, e.ClassDescription)
			fmt.Printf("Division: %s  %s\n", e.DivisionCode, e.DivisionDescription)
			fmt.Printf("Section:  %s  %s\n", e.SectionCode, e.SectionDescription)
			return nil
		},
	}
}

func searchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search classes, divisions and sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			s, err := getStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			hits, err := s.Search(args[0], limit)
			if err != nil {
				return err
			}

			if len(hits) == 0 {
				fmt.Println("No matches found.")
				return nil
			}

			for _, h := range hits {
				fmt.Printf("%-9s %s\n", h.Level, h.Display)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
	return cmd
}

func divisionsCmd() *cobra.Command {
	return childrenCmd("divisions [class-code]", "List the divisions of a class",
		func(s *store.Store, code string) ([]domain.Node, error) { return s.DivisionsByClass(code) })
}

func sectionsCmd() *cobra.Command {
	return childrenCmd("sections [division-code]", "List the sections of a division",
		func(s *store.Store, code string) ([]domain.Node, error) { return s.SectionsByDivision(code) })
}

func childrenCmd(use, short string, list func(*store.Store, string) ([]domain.Node, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !hierarchy.IsCode(args[0]) {
				return fmt.Errorf("%w: %q is not a 3-digit code", domain.ErrInvalidParameter, args[0])
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			s, err := getStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			nodes, err := list(s, args[0])
			if err != nil {
				return err
			}

			if len(nodes) == 0 {
				fmt.Println("Nothing found.")
				return nil
			}

			for _, n := range nodes {
				fmt.Printf("%s  %s\n", n.Code, n.Description)
			}
			return nil
		},
	}
}
