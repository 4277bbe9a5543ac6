package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kda153882-hash/makuake-research/internal/config"
	"github.com/kda153882-hash/makuake-research/internal/pipeline"
	"github.com/kda153882-hash/makuake-research/pkg/notify"
	"github.com/kda153882-hash/makuake-research/pkg/sourcing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "フィードを調査し、新着プロジェクトを台帳に追記します",
	Long: `Makuake のフィードからしきい値以上のプロジェクトを抽出し、Amazon・楽天での既存品の有無と
1688 / Google レンズの仕入れリンクを付けて台帳 (Google Sheets または SQLite) に追記します。
台帳に記録済みのプロジェクトは追記しません。`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, true)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := runPipeline(ctx, cfg)
		if report != nil {
			printReport(cmd.OutOrStdout(), report)
		}
		return err
	},
}

func init() {
	addFetchFlags(runCmd)
	addStoreFlags(runCmd)
	runCmd.Flags().Bool(config.KeyDryRun, false, "台帳への書き込みとメール送信を行わない")
}

// runPipeline は依存関係を組み立ててパイプラインを1回実行します。
func runPipeline(ctx context.Context, cfg config.Config) (*pipeline.Report, error) {
	fetcher := newFetcher()

	renderer, err := newRenderer(cfg, fetcher)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := renderer.Close(); cerr != nil {
			appLogger.Warn("レンダラーの終了に失敗しました", zap.Error(cerr))
		}
	}()

	source, err := newSource(cfg, renderer, fetcher)
	if err != nil {
		return nil, err
	}
	checker, err := newChecker(cfg, renderer)
	if err != nil {
		return nil, err
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	var sender notify.Sender
	if cfg.Email.Enabled() && !cfg.DryRun {
		sender = notify.NewEmailSender(cfg.Email, appLogger)
	}

	p, err := pipeline.New(pipeline.Options{
		Source:     source,
		Extract:    extractConfig(cfg),
		Checker:    checker,
		Translator: newTranslator(ctx, cfg),
		Sourcing:   sourcing.NewBuilder(),
		Store:      store,
		Notifier:   sender,
		Logger:     appLogger,
		DryRun:     cfg.DryRun,
	})
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}
