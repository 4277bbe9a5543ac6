package currency

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// ----------------------------------------------------------------------
// 定数定義
// ----------------------------------------------------------------------

const (
	// Sigil は金額の前置記号です (全角 ￥ は Normalize で半角に畳み込まれます)。
	Sigil = "¥"
	// Suffix は金額の後置通貨名です。
	Suffix = "円"
)

// Marker は、どの金額パターンにマッチしたかを表します。
type Marker int

const (
	MarkerNone Marker = iota
	MarkerSigil
	MarkerSuffix
)

var (
	sigilPattern  = regexp.MustCompile(`¥([0-9][0-9,]*)`)
	suffixPattern = regexp.MustCompile(`([0-9][0-9,]*)円`)
)

// Match は金額抽出の結果です。Amount が 0 の場合は「見つからなかった」を意味します。
type Match struct {
	Amount int64
	Marker Marker
	Index  int // Normalize 後のテキストにおけるマッチ開始位置 (バイト)
}

// Found は金額が確定したかどうかを返します。
func (m Match) Found() bool {
	return m.Amount > 0
}

// Normalize は全角英数字・記号を半角に畳み込みます。
func Normalize(text string) string {
	return width.Fold.String(text)
}

// Parse はテキスト中の最初の金額を返します。
// ¥前置パターンを優先し、次に「円」後置パターンを試します。
// 0 やオーバーフローする数値は金額とみなさず、次の候補に進みます。
func Parse(text string) Match {
	normalized := Normalize(text)

	for _, p := range []struct {
		re     *regexp.Regexp
		marker Marker
	}{
		{sigilPattern, MarkerSigil},
		{suffixPattern, MarkerSuffix},
	} {
		for _, loc := range p.re.FindAllStringSubmatchIndex(normalized, -1) {
			amount, ok := parseDigits(normalized[loc[2]:loc[3]])
			if !ok || amount == 0 {
				continue
			}
			return Match{Amount: amount, Marker: p.marker, Index: loc[0]}
		}
	}
	return Match{}
}

// ParseWithFallback はまず primary を解析し、金額が見つからなければ ancestor を解析します。
// 戻り値の usedAncestor は ancestor 側でマッチしたかどうかです。
func ParseWithFallback(primary, ancestor string) (m Match, usedAncestor bool) {
	if m = Parse(primary); m.Found() {
		return m, false
	}
	if strings.TrimSpace(ancestor) == "" {
		return Match{}, false
	}
	if m = Parse(ancestor); m.Found() {
		return m, true
	}
	return Match{}, false
}

func parseDigits(s string) (int64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
