package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/fintech/internal/adapter/http/dto"
	"github.com/iho/fintech/internal/adapter/http/middleware"
	"github.com/iho/fintech/internal/infrastructure/postgres"
)

const defaultMigrationsPath = "internal/infrastructure/postgres/migrations"

type options struct {
	baseURL string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "fintech-cli",
		Short:         "Fintech ledger CLI tool",
		Long:          `A command line interface for the fintech ledger API and its database schema.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the fintech API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		migrateCmd(),
		accountsCmd(opts),
		balanceCmd(opts),
		transactionsCmd(opts),
		ledgerCmd(opts),
	)

	return rootCmd
}

func (o *options) client() *apiClient {
	return newAPIClient(o.baseURL, o.timeout)
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&path, "path", defaultMigrationsPath, "Migrations directory")

	logger := func(cmd *cobra.Command) zerolog.Logger {
		return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).With().Timestamp().Logger()
	}
	requireURL := func() error {
		if databaseURL == "" {
			return fmt.Errorf("--database-url or DATABASE_URL is required")
		}
		return nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireURL(); err != nil {
					return err
				}
				return postgres.RunMigrations(databaseURL, path, logger(cmd))
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireURL(); err != nil {
					return err
				}
				return postgres.RunMigrationsDown(databaseURL, path, logger(cmd))
			},
		},
	)

	return cmd
}

func accountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	var name, owner string
	create := &cobra.Command{
		Use:   "create",
		Short: "Open an account with a zero balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.AccountResponse
			req := dto.CreateAccountRequest{Name: name, Owner: owner}
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/api/v1/accounts/", nil, req, nil, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	create.Flags().StringVar(&name, "name", "", "Account name (1-20 characters)")
	create.Flags().StringVar(&owner, "owner", "", "Owner reference")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("owner")

	get := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.AccountResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, nil, nil, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.AddCommand(create, get)
	return cmd
}

func balanceCmd(opts *options) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show the current balance, or the balance at the end of --as-of",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if asOf != "" {
				query.Set("as_of", asOf)
			}

			var resp dto.BalanceResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/balance"
			if err := opts.client().do(cmd.Context(), http.MethodGet, path, query, nil, nil, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "Date (YYYY-MM-DD)")

	return cmd
}

func transactionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Transaction operations",
	}
	cmd.AddCommand(
		listTransactionsCmd(opts),
		createTransactionCmd(opts),
		editTransactionCmd(opts),
		deleteTransactionCmd(opts),
	)
	return cmd
}

func listTransactionsCmd(opts *options) *cobra.Command {
	var page, pageSize int
	var includeInactive bool

	cmd := &cobra.Command{
		Use:   "list <account-id>",
		Short: "List transactions newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("page", strconv.Itoa(page))
			query.Set("page_size", strconv.Itoa(pageSize))
			if includeInactive {
				query.Set("include_inactive", "true")
			}

			var resp dto.TransactionPageResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/transactions"
			if err := opts.client().do(cmd.Context(), http.MethodGet, path, query, nil, nil, &resp); err != nil {
				return err
			}
			return printTransactions(cmd.OutOrStdout(), &resp)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Page size (max 100)")
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "Include inactive transactions")

	return cmd
}

func createTransactionCmd(opts *options) *cobra.Command {
	var req dto.CreateTransactionRequest
	var idempotencyKey string

	cmd := &cobra.Command{
		Use:   "create <account-id>",
		Short: "Post a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var headers map[string]string
			if idempotencyKey != "" {
				headers = map[string]string{middleware.IdempotencyKeyHeader: idempotencyKey}
			}

			var resp dto.TransactionResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/transactions"
			if err := opts.client().do(cmd.Context(), http.MethodPost, path, nil, req, headers, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&req.TransactionDate, "date", time.Now().UTC().Format("2006-01-02"), "Transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "Signed amount with at most two decimals")
	cmd.Flags().StringVar(&req.Description, "description", "", "Description (max 20 characters)")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func editTransactionCmd(opts *options) *cobra.Command {
	var amount, date, description string
	var active bool

	cmd := &cobra.Command{
		Use:   "edit <transaction-id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.EditTransactionRequest
			flags := cmd.Flags()
			if flags.Changed("amount") {
				req.Amount = &amount
			}
			if flags.Changed("date") {
				req.TransactionDate = &date
			}
			if flags.Changed("description") {
				req.Description = &description
			}
			if flags.Changed("active") {
				req.Active = &active
			}

			var resp dto.TransactionResponse
			path := "/api/v1/transactions/" + url.PathEscape(args[0])
			if err := opts.client().do(cmd.Context(), http.MethodPatch, path, nil, req, nil, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "New signed amount")
	cmd.Flags().StringVar(&date, "date", "", "New transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the transaction counts toward the balance")

	return cmd
}

func deleteTransactionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/transactions/" + url.PathEscape(args[0])
			if err := opts.client().do(cmd.Context(), http.MethodDelete, path, nil, nil, nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s\n", args[0])
			return nil
		},
	}
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ConsistencyResponse
			err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, nil, nil, &resp)
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
				_ = json.Unmarshal([]byte(apiErr.Body), &resp)
				printConsistency(cmd.OutOrStdout(), &resp)
				return fmt.Errorf("consistency check FAILED: %d discrepancies", len(resp.Discrepancies))
			}
			if err != nil {
				return err
			}

			printConsistency(cmd.OutOrStdout(), &resp)
			return nil
		},
	})

	return cmd
}

func printConsistency(w io.Writer, resp *dto.ConsistencyResponse) {
	if resp.Consistent {
		fmt.Fprintf(w, "Consistency check PASSED\n")
	}
	fmt.Fprintf(w, "Accounts: %d, reconciled: %d\n", resp.TotalAccounts, resp.ReconciledAccounts)
	for _, d := range resp.Discrepancies {
		fmt.Fprintf(w, "  %s recorded=%s calculated=%s difference=%s\n",
			d.AccountID, d.RecordedBalance, d.CalculatedBalance, d.Difference)
	}
}

func printTransactions(w io.Writer, page *dto.TransactionPageResponse) error {
	fmt.Fprintf(w, "%-26s  %-10s  %12s  %-20s  %s\n", "ID", "DATE", "AMOUNT", "DESCRIPTION", "ACTIVE")
	for _, t := range page.Transactions {
		fmt.Fprintf(w, "%-26s  %-10s  %12s  %-20s  %v\n",
			truncate(t.ID, 26), t.TransactionDate, t.Amount, truncate(t.Description, 20), t.Active)
	}
	_, err := fmt.Fprintf(w, "page %d (size %d) of %d transactions\n", page.Page, page.PageSize, page.Total)
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
