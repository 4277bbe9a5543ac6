package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kda153882-hash/makuake-research/internal/pipeline"
	"github.com/kda153882-hash/makuake-research/pkg/keyword"
	"github.com/kda153882-hash/makuake-research/pkg/market"
)

var (
	checkKeyword string
	checkTitle   string
	checkMarkets []string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "キーワードでマーケットプレイスを検索し、既存品の有無を表示します",
	Long: `指定したキーワード (または --title から導出したキーワード) で Amazon・楽天を検索し、
既存品あり / 該当なし / ボット検知 / 確認失敗 のいずれかを表示します。`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kw := strings.TrimSpace(checkKeyword)
		if kw == "" && strings.TrimSpace(checkTitle) != "" {
			kw = keyword.Extract(checkTitle)
		}
		if kw == "" {
			return fmt.Errorf("%w: --keyword または --title を指定してください", pipeline.ErrSetup)
		}

		markets, err := selectMarkets(checkMarkets)
		if err != nil {
			return fmt.Errorf("%w: %w", pipeline.ErrSetup, err)
		}

		cfg, err := loadConfig(cmd, false)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		renderer, err := newRenderer(cfg, newFetcher())
		if err != nil {
			return err
		}
		defer renderer.Close()

		checker, err := newChecker(cfg, renderer)
		if err != nil {
			return err
		}

		results := checker.CheckAll(ctx, kw, markets...)
		printChecks(cmd.OutOrStdout(), kw, results)
		return ctx.Err()
	},
}

func init() {
	addFetchFlags(checkCmd)
	checkCmd.Flags().StringVarP(&checkKeyword, "keyword", "k", "", "検索キーワード")
	checkCmd.Flags().StringVar(&checkTitle, "title", "", "キーワードを導出するプロジェクトタイトル")
	checkCmd.Flags().StringSliceVar(&checkMarkets, "market", nil, "確認するマーケットプレイス (amazon,rakuten。既定: すべて)")
}

// selectMarkets は ID の一覧を Marketplace に変換します。空の場合はすべてを返します。
func selectMarkets(ids []string) ([]market.Marketplace, error) {
	if len(ids) == 0 {
		return market.Builtins(), nil
	}
	markets := make([]market.Marketplace, 0, len(ids))
	for _, id := range ids {
		m, err := market.ByID(id)
		if err != nil {
			return nil, err
		}
		markets = append(markets, m)
	}
	return markets, nil
}
