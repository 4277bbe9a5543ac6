/*
Package sourcing は、越境仕入れ先の検索URLと画像逆引き検索URLを組み立てます。
*/
package sourcing

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// Default1688Template は 1688.com のキーワード検索テンプレートです。
	Default1688Template = "https://s.1688.com/selloffer/offer_search.htm?keywords=%s"
	// DefaultLensTemplate は Google レンズの画像URL検索テンプレートです。
	DefaultLensTemplate = "https://lens.google.com/uploadbyurl?url=%s"
)

// Builder は検索テンプレートを保持する純粋なリンクビルダーです。
type Builder struct {
	KeywordTemplate string
	ImageTemplate   string
}

// NewBuilder はデフォルトテンプレートの Builder を返します。
func NewBuilder() Builder {
	return Builder{
		KeywordTemplate: Default1688Template,
		ImageTemplate:   DefaultLensTemplate,
	}
}

// Links は1プロジェクト分の仕入れ調査リンクです。
// ReverseImage は画像がない場合は空になります。
type Links struct {
	Sourcing     string
	ReverseImage string
}

// Build は翻訳済みキーワードと画像URLからリンクを生成します。
func (b Builder) Build(keyword, imageURL string) Links {
	links := Links{
		Sourcing: fmt.Sprintf(b.KeywordTemplate, url.QueryEscape(strings.TrimSpace(keyword))),
	}
	if imageURL = strings.TrimSpace(imageURL); imageURL != "" {
		links.ReverseImage = fmt.Sprintf(b.ImageTemplate, url.QueryEscape(imageURL))
	}
	return links
}

// String は台帳のセルに書き込む改行区切りのテキストを返します。
func (l Links) String() string {
	lines := []string{"1688: " + l.Sourcing}
	if l.ReverseImage != "" {
		lines = append(lines, "画像検索: "+l.ReverseImage)
	}
	return strings.Join(lines, "\n")
}
