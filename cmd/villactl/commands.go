package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"ko_lake_villa/internal/domain"
	"ko_lake_villa/internal/gallery"
	"ko_lake_villa/internal/pricing"
	"ko_lake_villa/internal/shared"
	mysqlrepo "ko_lake_villa/internal/storage/mysql"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "villactl",
		Short:         "Ko Lake Villa pricing and gallery tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(quoteCmd(), eligibilityCmd(), galleryCmd(), migrateCmd())
	return root
}

type stayFlags struct {
	checkIn, checkOut string
	category          string
	rate              string
	available         bool
	rulesFile         string
}

func (f *stayFlags) register(cmd *cobra.Command, withRate bool) {
	cmd.Flags().StringVar(&f.checkIn, "check-in", "", "check-in date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.checkOut, "check-out", "", "check-out date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.category, "category", string(domain.RoomVilla), "room category: villa, suite or room")
	cmd.Flags().BoolVar(&f.available, "available", true, "treat the category as free over the next three weekdays")
	cmd.Flags().StringVar(&f.rulesFile, "rules", "", "YAML pricing rule overrides")
	_ = cmd.MarkFlagRequired("check-in")
	_ = cmd.MarkFlagRequired("check-out")
	if withRate {
		cmd.Flags().StringVar(&f.rate, "rate", "", "nightly base rate")
		_ = cmd.MarkFlagRequired("rate")
	}
}

func (f *stayFlags) build() (*pricing.Engine, domain.StayRequest, error) {
	in, err := time.Parse(time.DateOnly, f.checkIn)
	if err != nil {
		return nil, domain.StayRequest{}, fmt.Errorf("--check-in: %w", err)
	}
	out, err := time.Parse(time.DateOnly, f.checkOut)
	if err != nil {
		return nil, domain.StayRequest{}, fmt.Errorf("--check-out: %w", err)
	}
	stay := domain.StayRequest{CheckIn: in, CheckOut: out, RoomCategory: domain.RoomCategory(f.category)}
	if f.rate != "" {
		if stay.NightlyBaseRate, err = decimal.NewFromString(f.rate); err != nil {
			return nil, domain.StayRequest{}, fmt.Errorf("--rate: %w", err)
		}
	}

	rules := pricing.DefaultRules()
	if f.rulesFile != "" {
		if rules, err = pricing.LoadRules(f.rulesFile); err != nil {
			return nil, domain.StayRequest{}, err
		}
	}
	avail := pricing.AvailabilityFunc(func(context.Context, domain.RoomCategory) (bool, error) {
		return f.available, nil
	})
	return pricing.New(avail, pricing.WithRules(rules)), stay, nil
}

func quoteCmd() *cobra.Command {
	var f stayFlags
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a stay night by night",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, stay, err := f.build()
			if err != nil {
				return err
			}
			res, err := e.CalculatePricing(cmd.Context(), stay)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	f.register(cmd, true)
	return cmd
}

func eligibilityCmd() *cobra.Command {
	var f stayFlags
	cmd := &cobra.Command{
		Use:   "eligibility",
		Short: "Show which offers a stay qualifies for",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, stay, err := f.build()
			if err != nil {
				return err
			}
			adv, err := e.CheckOfferEligibility(cmd.Context(), stay)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), adv)
		},
	}
	f.register(cmd, false)
	return cmd
}

func galleryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Gallery maintenance",
	}

	var (
		file           string
		nearDuplicates bool
		verbose        bool
	)
	normalize := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a JSON array of raw gallery rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if file == "" || file == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(file)
			}
			if err != nil {
				return err
			}

			opts := []gallery.Option{}
			if nearDuplicates {
				opts = append(opts, gallery.WithNearDuplicateFilter())
			}
			if verbose {
				opts = append(opts, gallery.WithLogger(zerolog.New(cmd.ErrOrStderr())))
			}
			out, err := gallery.NormalizeJSON(data, opts...)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	normalize.Flags().StringVarP(&file, "file", "f", "", "input file, - or empty for stdin")
	normalize.Flags().BoolVar(&nearDuplicates, "near-duplicates", false, "also drop resized or re-uploaded variants")
	normalize.Flags().BoolVarP(&verbose, "verbose", "v", false, "log dropped records to stderr")

	cmd.AddCommand(normalize)
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations to MYSQL_DSN",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := shared.Load()
			db, err := sql.Open("mysql", cfg.MySQLDSN)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.PingContext(cmd.Context()); err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			if err := mysqlrepo.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
