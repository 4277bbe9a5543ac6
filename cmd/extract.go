package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kda153882-hash/makuake-research/internal/pipeline"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "フィードからプロジェクトを抽出して表示します (確認・書き込みは行いません)",
	Long:  `フィードを描画し、しきい値以上の応援購入総額を持つプロジェクトを一覧表示します。マーケットプレイスの確認や台帳への書き込みは行いません。`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, false)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fetcher := newFetcher()
		renderer, err := newRenderer(cfg, fetcher)
		if err != nil {
			return err
		}
		defer renderer.Close()

		source, err := newSource(cfg, renderer, fetcher)
		if err != nil {
			return err
		}

		records, stats, err := pipeline.Collect(ctx, source, extractConfig(cfg))
		if err != nil {
			return err
		}
		printRecords(cmd.OutOrStdout(), records)
		printStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	addFetchFlags(extractCmd)
}
