package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"insurebot/internal/app"
	"insurebot/internal/config"
	"insurebot/internal/logger"
	"insurebot/internal/model"
	"insurebot/internal/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	zl          *zap.Logger
	application *app.App
	logLevel    string
	jsonOutput  bool
	timeout     time.Duration

	filterGender   string
	filterAge      int
	filterSmoker   string
	filterMaxPrice float64
	filterMinScore float64
	filterCompany  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "InsureBot catalog operations",
	Long: `Operate the whole life insurance catalog without the HTTP server.

Configuration is read from the environment and an optional .env file,
the same way the API server reads it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		zl, err = logger.New(cfg.Logging.Level, "console")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		application, err = app.New(cmd.Context(), cfg, zl)
		if err != nil {
			return err
		}
		return nil
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Rebuild the catalog from the source CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		n, err := application.Plans.Ingest(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d plans\n", n)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every plan in stored order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		return printPlans(cmd.OutOrStdout(), application.Plans.List(ctx))
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter, deduplicate and rank plans by whole life score",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		var criteria model.FilterCriteria
		flags := cmd.Flags()
		if flags.Changed("gender") {
			criteria.Gender = &filterGender
		}
		if flags.Changed("age") {
			criteria.Age = &filterAge
		}
		if flags.Changed("smoker") {
			criteria.SmokerStatus = &filterSmoker
		}
		if flags.Changed("max-price") {
			criteria.MaxPrice = &filterMaxPrice
		}
		if flags.Changed("min-score") {
			criteria.MinScore = &filterMinScore
		}
		if flags.Changed("company") {
			criteria.Company = &filterCompany
		}

		return printPlans(cmd.OutOrStdout(), application.Plans.Filter(ctx, criteria))
	},
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Compute and store embeddings for every plan (postgres backend)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		resp, err := application.Plans.EmbedCatalog(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Embedded %d plans, %d failed\n", resp.Success, resp.Failed)
		for _, e := range resp.Errors {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", e)
		}
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat [user-id]",
	Short: "Chat with InsureBot on the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		userID := ""
		if len(args) == 1 {
			userID = args[0]
		}

		session, err := application.Chat.CreateSession(ctx, userID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "InsureBot: %s\n", session.Messages[0].Content)

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "/quit" {
				return nil
			}

			updated, result, err := application.Chat.SendMessage(ctx, session.ID, line)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "InsureBot: %s\n", result.Text)
			if result.HasSearchCriteria {
				if err := printPlans(out, updated.CurrentRecommendations); err != nil {
					return err
				}
			}
		}
	},
}

func printPlans(w io.Writer, plans []model.Plan) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plans)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tTITLE\tMONTHLY\tWHOLE LIFE\tTOTAL\tGENDER\tAGE\tSMOKER")
	for _, p := range plans {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.1f\t%.1f\t%s\t%s\t%s\n",
			p.ID,
			utils.CompanyDisplayName(p.Company),
			p.Title,
			p.Price,
			p.Details.WholeLifeScore,
			p.Details.TotalScore,
			p.Details.Gender,
			p.Details.Age,
			p.Details.SmokerStatus)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d plans\n", len(plans))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print plans as JSON")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	filterCmd.Flags().StringVar(&filterGender, "gender", "", "Gender, e.g. Male or Female")
	filterCmd.Flags().IntVar(&filterAge, "age", 0, "Applicant age")
	filterCmd.Flags().StringVar(&filterSmoker, "smoker", "", "Smoker status, e.g. \"Non Smoker\"")
	filterCmd.Flags().Float64Var(&filterMaxPrice, "max-price", 0, "Maximum monthly premium")
	filterCmd.Flags().Float64Var(&filterMinScore, "min-score", 0, "Minimum total score")
	filterCmd.Flags().StringVar(&filterCompany, "company", "", "Insurer name or alias")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(chatCmd)
}

// shutdown releases what PersistentPreRunE opened. It runs after every command,
// failed ones included.
func shutdown() {
	if application != nil {
		if err := application.Close(); err != nil && zl != nil {
			zl.Warn("Failed to close application", zap.Error(err))
		}
		application = nil
	}
	if zl != nil {
		_ = zl.Sync()
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	shutdown()
	stop()
	if err != nil {
		os.Exit(1)
	}
}
