package cmd

import (
	"time"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kda153882-hash/makuake-research/internal/logger"
)

// --- グローバル定数 ---

const (
	appName           = "makuake-research"
	defaultTimeoutSec = 30 // 秒
	defaultMaxRetries = 3  // デフォルトのリトライ回数
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	TimeoutSec int    // --timeout HTTP取得のタイムアウト
	MaxRetries int    // --max-retries HTTP取得のリトライ回数
	LogFile    string // --log-file JSONログの出力先
}

var Flags AppFlags // アプリケーション固有フラグにアクセスするためのグローバル変数
var appLogger = zap.NewNop()

// --- 初期化とロジック (clibaseへのコールバックとして利用) ---

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().IntVar(
		&Flags.TimeoutSec,
		"timeout",
		defaultTimeoutSec,
		"HTTP取得 (renderer=http, source=rss) のタイムアウト時間（秒）",
	)
	rootCmd.PersistentFlags().IntVar(
		&Flags.MaxRetries,
		"max-retries",
		defaultMaxRetries,
		"HTTP取得のリトライ最大回数",
	)
	rootCmd.PersistentFlags().StringVar(
		&Flags.LogFile,
		"log-file",
		"",
		"JSONログをローテーション付きで書き出すファイルパス",
	)
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
// NOTE: clibaseの PersistentPreRunE チェーンにより、clibase.Flags.Verbose はこの関数実行前に設定済み
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	l, err := logger.New(logger.Options{
		Verbose: clibase.Flags.Verbose,
		File:    Flags.LogFile,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	appLogger = l

	appLogger.Debug("HTTPクライアントを設定しました",
		zap.Duration("timeout", httpTimeout()),
		zap.Int("max_retries", Flags.MaxRetries))
	return nil
}

func httpTimeout() time.Duration {
	if Flags.TimeoutSec <= 0 {
		return time.Duration(defaultTimeoutSec) * time.Second
	}
	return time.Duration(Flags.TimeoutSec) * time.Second
}

// --- エントリポイント ---

// Execute は、clibase を使用してアプリケーションの初期化、フラグ設定、サブコマンドの登録を一括で行います。
func Execute() {
	defer func() { _ = appLogger.Sync() }()

	clibase.Execute(
		appName,
		addAppPersistentFlags,
		initAppPreRunE,
		runCmd,
		extractCmd,
		checkCmd,
	)
	// clibase.Execute() の中で os.Exit(1) が処理されるため、ここでは不要
}
