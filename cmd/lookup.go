package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"proplookup/internal/config"
	"proplookup/pkg/csvrows"
	"proplookup/pkg/domain"
	"proplookup/pkg/logger"
	"proplookup/pkg/report"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", report.FormatMarkdown,
		fmt.Sprintf("Output format (%s)", strings.Join(report.Formats, ", ")))
}

func reportWriter(ctx context.Context, cmd *cobra.Command) report.Writer {
	format, _ := cmd.Flags().GetString("format")
	w, ok := report.New(format, cmd.OutOrStdout())
	if !ok {
		logger.Fatal(ctx, "unknown output format", zap.String("format", format))
	}

	return w
}

// lookupCommand constructs the 'lookup' subcommand that resolves the owner of
// a single address and prints the result.
func lookupCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <address>",
		Short: "Looks up the owner of one address",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := reportWriter(ctx, cmd)
			res := getLookupService(ctx, cfg).Lookup(ctx, domain.TextInput(strings.Join(args, " ")))
			if _, err := w.WriteLookup(res); err != nil {
				logger.Fatal(ctx, "could not write report", zap.Error(err))
			}
			if res.Error != nil {
				os.Exit(1) //nolint: gocritic
			}
		},
	}
	addFormatFlag(cmd)

	return cmd
}

// batchCommand constructs the 'batch' subcommand that looks up the rows of a
// CSV file, or of stdin when the file is "-".
func batchCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file.csv>",
		Short: "Looks up the owners of the addresses in a CSV file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := reportWriter(ctx, cmd)

			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					logger.Fatal(ctx, "could not open CSV file", zap.Error(err))
				}
				defer f.Close() //nolint: errcheck
				in = f
			}

			rows, err := csvrows.Read(in)
			if err != nil {
				logger.Fatal(ctx, "could not read CSV file", zap.Error(err))
			}

			out := getLookupService(ctx, cfg).RunBatch(ctx, rows)
			logger.Info(ctx, "batch finished", zap.String("batchID", out.ID),
				zap.Int("succeeded", len(out.Results)), zap.Int("failed", len(out.Errors)))
			if _, err := w.WriteBatch(out); err != nil {
				logger.Fatal(ctx, "could not write report", zap.Error(err))
			}
		},
	}
	addFormatFlag(cmd)

	return cmd
}
