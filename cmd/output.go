package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/kda153882-hash/makuake-research/internal/pipeline"
	"github.com/kda153882-hash/makuake-research/pkg/currency"
	"github.com/kda153882-hash/makuake-research/pkg/extract"
	"github.com/kda153882-hash/makuake-research/pkg/types"
)

// printReport は実行結果の集計と追記した行を表示します。
func printReport(w io.Writer, r *pipeline.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("実行結果")
	t.AppendRows([]table.Row{
		{"フィードのアイテム", r.Items},
		{"抽出したプロジェクト", r.Stats.Accepted},
		{"既出URL (実行前)", r.Seen},
		{"新着プロジェクト", r.Fresh},
		{"台帳への追記", r.Appended},
	})
	if r.DryRun {
		t.AppendRow(table.Row{"モード", "ドライラン"})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	if len(r.Rows) == 0 {
		return
	}
	rows := table.NewWriter()
	rows.SetOutputMirror(w)
	rows.AppendHeader(table.Row{"タイトル", "応援購入総額", "Amazon", "楽天", "翻訳キーワード"})
	for _, row := range r.Rows {
		rows.AppendRow(table.Row{row.Title, row.Funding, row.Amazon.Label(), row.Rakuten.Label(), row.OriginHint})
	}
	rows.SetStyle(table.StyleRounded)
	rows.Render()
}

// printRecords は抽出したレコードを表示します。
func printRecords(w io.Writer, records []types.ProjectRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "条件を満たすプロジェクトは見つかりませんでした。")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "タイトル", "応援購入総額", "URL", "画像"})
	for i, r := range records {
		img := ""
		if r.HasImage() {
			img = "あり"
		}
		t.AppendRow(table.Row{i + 1, r.Title, currency.Format(r.FundingAmount), r.URL, img})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// printStats はスキップ理由ごとの件数を表示します。
func printStats(w io.Writer, stats extract.Stats) {
	reasons := make([]types.SkipReason, 0, len(stats.Skipped))
	for reason := range stats.Skipped {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"結果", "件数"})
	t.AppendRow(table.Row{"accepted", stats.Accepted})
	for _, reason := range reasons {
		t.AppendRow(table.Row{reason.String(), stats.Skipped[reason]})
	}
	t.AppendFooter(table.Row{"total", stats.Total})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// printChecks はマーケットプレイスの確認結果を表示します。
func printChecks(w io.Writer, kw string, results []types.MarketCheckResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("キーワード: " + kw)
	t.AppendHeader(table.Row{"マーケットプレイス", "判定", "検索URL"})
	for _, r := range results {
		label := r.Label()
		if r.Err != nil {
			label += " (" + r.Err.Error() + ")"
		}
		t.AppendRow(table.Row{r.Marketplace, label, r.SearchURL})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
