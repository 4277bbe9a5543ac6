/*
Package notify は、台帳に追記したプロジェクトの一覧をメールで送信します。
*/
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/kda153882-hash/makuake-research/pkg/ledger"
)

// Message は送信前のメール本文です。
type Message struct {
	Subject string
	Text    string
	HTML    string
}

type digestItem struct {
	Title      string
	URL        string
	Funding    string
	Amazon     string
	Rakuten    string
	Sourcing   string
	OriginHint string
}

type digestData struct {
	Date  string
	Count int
	Items []digestItem
}

const digestHTMLTemplate = `<html><body>
<h2>Makuake リサーチ {{.Date}} ({{.Count}}件)</h2>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>タイトル</th><th>応援購入総額</th><th>Amazon</th><th>楽天</th><th>仕入れ</th></tr>
{{range .Items}}<tr>
<td><a href="{{.URL}}">{{.Title}}</a></td>
<td>{{.Funding}}</td>
<td>{{.Amazon}}</td>
<td>{{.Rakuten}}</td>
<td><a href="{{.Sourcing}}">1688</a>{{if .OriginHint}} ({{.OriginHint}}){{end}}</td>
</tr>
{{end}}</table>
</body></html>`

// DigestRenderer は追記した行からメール本文を組み立てます。
type DigestRenderer struct {
	tmpl *template.Template
}

// NewDigestRenderer はデフォルトのテンプレートで DigestRenderer を生成します。
func NewDigestRenderer() *DigestRenderer {
	return &DigestRenderer{tmpl: template.Must(template.New("digest").Parse(digestHTMLTemplate))}
}

// Render は rows の一覧メールを生成します。
func (r *DigestRenderer) Render(date time.Time, rows []ledger.Row) (*Message, error) {
	data := digestData{Date: date.Format(ledger.DateLayout), Count: len(rows)}
	var text strings.Builder
	fmt.Fprintf(&text, "Makuake リサーチ %s (%d件)\n", data.Date, data.Count)

	for _, row := range rows {
		item := digestItem{
			Title:      row.Title,
			URL:        row.URL,
			Funding:    row.Funding,
			Amazon:     row.Amazon.Label(),
			Rakuten:    row.Rakuten.Label(),
			Sourcing:   row.Sourcing.Sourcing,
			OriginHint: row.OriginHint,
		}
		data.Items = append(data.Items, item)
		fmt.Fprintf(&text, "\n- %s (%s)\n  %s\n  Amazon: %s / 楽天: %s\n  %s\n",
			item.Title, item.Funding, item.URL, item.Amazon, item.Rakuten, row.Sourcing.String())
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("メールテンプレートの描画に失敗しました: %w", err)
	}

	return &Message{
		Subject: fmt.Sprintf("[Makuake] 新着プロジェクト %d件 (%s)", data.Count, data.Date),
		Text:    text.String(),
		HTML:    buf.String(),
	}, nil
}
