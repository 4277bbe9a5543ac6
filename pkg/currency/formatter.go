package currency

import "fmt"

const (
	man = 10_000
	oku = 100_000_000
)

// Format は円の金額を「億」「万」単位の表記に変換します。
//
//	9999      -> 9999円
//	10000     -> 1万円
//	150000000 -> 1億5000万円
func Format(amount int64) string {
	switch {
	case amount >= oku:
		rest := (amount % oku) / man
		if rest == 0 {
			return fmt.Sprintf("%d億円", amount/oku)
		}
		return fmt.Sprintf("%d億%d万円", amount/oku, rest)
	case amount >= man:
		return fmt.Sprintf("%d万円", amount/man)
	default:
		return fmt.Sprintf("%d円", amount)
	}
}
