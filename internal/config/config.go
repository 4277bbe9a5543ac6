package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kda153882-hash/makuake-research/pkg/extract"
	"github.com/kda153882-hash/makuake-research/pkg/feed"
	"github.com/kda153882-hash/makuake-research/pkg/ledger"
	"github.com/kda153882-hash/makuake-research/pkg/market"
	"github.com/kda153882-hash/makuake-research/pkg/notify"
	"github.com/kda153882-hash/makuake-research/pkg/translate"
)

// ErrInvalid は設定値の不足や不正を表します。
var ErrInvalid = errors.New("設定が不正です")

const (
	StoreSheets = "sheets"
	StoreSQLite = "sqlite"

	RendererBrowser = "browser"
	RendererHTTP    = "http"

	SourcePage = "page"
	SourceRSS  = "rss"
)

// 設定キー。環境変数名はキーを大文字にし "-" を "_" に置き換えたものです。
const (
	KeyFeedURL      = "feed-url"
	KeySource       = "source"
	KeyRenderer     = "renderer"
	KeyHeadless     = "headless"
	KeyStore        = "store"
	KeyMinFunding   = "min-funding"
	KeyDelay        = "delay"
	KeyCheckTimeout = "check-timeout"
	KeyCredentials  = "google-sheets-credentials"
	KeySheetID      = "sheet-id"
	KeySheetName    = "sheet-name"
	KeySQLitePath   = "sqlite-path"
	KeyGeminiAPIKey = "gemini-api-key"
	KeyGeminiModel  = "gemini-model"
	KeySMTPServer   = "smtp-server"
	KeySMTPPort     = "smtp-port"
	KeySMTPUser     = "smtp-user"
	KeySMTPPass     = "smtp-pass"
	KeyFromEmail    = "from-email"
	KeyToEmail      = "to-email"
	KeyLogFile      = "log-file"
	KeyDryRun       = "dry-run"
)

// Config は1回の実行に必要なすべての設定値です。
type Config struct {
	FeedURL      string
	Source       string
	Renderer     string
	Headless     bool
	Store        string
	MinFunding   int64
	Delay        time.Duration
	CheckTimeout time.Duration

	SheetsCredentials string
	SheetID           string
	SheetName         string
	SQLitePath        string

	GeminiAPIKey string
	GeminiModel  string

	Email notify.EmailConfig

	LogFile string
	DryRun  bool
}

// New は既定値と環境変数の読み込みを設定した viper インスタンスを返します。
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyFeedURL, feed.DefaultDiscoverURL)
	v.SetDefault(KeySource, SourcePage)
	v.SetDefault(KeyRenderer, RendererBrowser)
	v.SetDefault(KeyHeadless, true)
	v.SetDefault(KeyStore, StoreSheets)
	v.SetDefault(KeyMinFunding, extract.DefaultMinFunding)
	v.SetDefault(KeyDelay, market.DefaultDelay)
	v.SetDefault(KeyCheckTimeout, market.DefaultCheckTimeout)
	v.SetDefault(KeySheetName, ledger.DefaultSheetName)
	v.SetDefault(KeySQLitePath, ledger.DefaultSQLitePath)
	v.SetDefault(KeyGeminiModel, translate.DefaultModel)
	v.SetDefault(KeySMTPPort, 587)
	return v
}

// BindFlags はコマンドラインフラグを viper に結び付けます。フラグは環境変数より優先されます。
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("フラグのバインドに失敗しました: %w", err)
	}
	return nil
}

// Load は viper から Config を組み立てます。
func Load(v *viper.Viper) Config {
	return Config{
		FeedURL:      strings.TrimSpace(v.GetString(KeyFeedURL)),
		Source:       strings.ToLower(strings.TrimSpace(v.GetString(KeySource))),
		Renderer:     strings.ToLower(strings.TrimSpace(v.GetString(KeyRenderer))),
		Headless:     v.GetBool(KeyHeadless),
		Store:        strings.ToLower(strings.TrimSpace(v.GetString(KeyStore))),
		MinFunding:   v.GetInt64(KeyMinFunding),
		Delay:        v.GetDuration(KeyDelay),
		CheckTimeout: v.GetDuration(KeyCheckTimeout),

		SheetsCredentials: v.GetString(KeyCredentials),
		SheetID:           strings.TrimSpace(v.GetString(KeySheetID)),
		SheetName:         v.GetString(KeySheetName),
		SQLitePath:        v.GetString(KeySQLitePath),

		GeminiAPIKey: v.GetString(KeyGeminiAPIKey),
		GeminiModel:  v.GetString(KeyGeminiModel),

		Email: notify.EmailConfig{
			SMTPServer: v.GetString(KeySMTPServer),
			SMTPPort:   v.GetInt(KeySMTPPort),
			SMTPUser:   v.GetString(KeySMTPUser),
			SMTPPass:   v.GetString(KeySMTPPass),
			FromEmail:  v.GetString(KeyFromEmail),
			ToEmail:    v.GetString(KeyToEmail),
		},

		LogFile: v.GetString(KeyLogFile),
		DryRun:  v.GetBool(KeyDryRun),
	}
}

// Validate は実行前に設定値の整合性を確認します。
// 問題はまとめて1つのエラーとして返し、ErrInvalid で判定できます。
func (c Config) Validate() error {
	problems := c.fetchProblems()

	switch c.Store {
	case StoreSheets:
		if strings.TrimSpace(c.SheetsCredentials) == "" {
			problems = append(problems, "GOOGLE_SHEETS_CREDENTIALS が設定されていません")
		}
		if c.SheetID == "" {
			problems = append(problems, "SHEET_ID が設定されていません")
		}
	case StoreSQLite:
	default:
		problems = append(problems, fmt.Sprintf("STORE は %s か %s を指定してください: %q", StoreSheets, StoreSQLite, c.Store))
	}

	return joinProblems(problems)
}

// ValidateFetch は台帳を使わないコマンド (extract, check) 向けに、取得関連の設定だけを確認します。
func (c Config) ValidateFetch() error {
	return joinProblems(c.fetchProblems())
}

func (c Config) fetchProblems() []string {
	var problems []string
	if c.Renderer != RendererBrowser && c.Renderer != RendererHTTP {
		problems = append(problems, fmt.Sprintf("RENDERER は %s か %s を指定してください: %q", RendererBrowser, RendererHTTP, c.Renderer))
	}
	if c.Source != SourcePage && c.Source != SourceRSS {
		problems = append(problems, fmt.Sprintf("SOURCE は %s か %s を指定してください: %q", SourcePage, SourceRSS, c.Source))
	}
	if c.MinFunding <= 0 {
		problems = append(problems, "MIN_FUNDING は正の値を指定してください")
	}
	if c.Delay < 0 {
		problems = append(problems, "DELAY は0以上を指定してください")
	}
	if c.CheckTimeout <= 0 {
		problems = append(problems, "CHECK_TIMEOUT は正の値を指定してください")
	}

	return problems
}

func joinProblems(problems []string) error {
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
