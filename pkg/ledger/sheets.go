package ledger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/kda153882-hash/makuake-research/pkg/retry"
)

// DefaultSheetName は書き込み先のシート名のデフォルト値です。
const DefaultSheetName = "シート1"

// valuesAPI は Sheets の values リソースのうち台帳が使う操作です。
type valuesAPI interface {
	Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
	Append(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error
}

// serviceValues は *sheets.Service を valuesAPI に適合させます。
type serviceValues struct {
	srv *sheets.Service
}

func (s serviceValues) Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (s serviceValues) Append(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error {
	vr := &sheets.ValueRange{Values: values}
	_, err := s.srv.Spreadsheets.Values.Append(spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// SheetsConfig は Google Sheets 台帳の接続設定です。
type SheetsConfig struct {
	// Credentials はサービスアカウントのJSON本体、またはJSONファイルのパスです。
	Credentials   string
	SpreadsheetID string
	SheetName     string
	Retry         retry.Config
}

// Sheets は Google Sheets を台帳とする Store の実装です。
type Sheets struct {
	values        valuesAPI
	spreadsheetID string
	sheetName     string
	retryConfig   retry.Config
	logger        *zap.Logger
}

// NewSheets はサービスアカウント認証で Sheets API クライアントを生成します。
func NewSheets(ctx context.Context, cfg SheetsConfig, logger *zap.Logger) (*Sheets, error) {
	if strings.TrimSpace(cfg.Credentials) == "" {
		return nil, fmt.Errorf("Google Sheets の認証情報が設定されていません")
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("スプレッドシートIDが設定されていません")
	}

	var opt option.ClientOption
	if strings.HasPrefix(strings.TrimSpace(cfg.Credentials), "{") {
		opt = option.WithCredentialsJSON([]byte(cfg.Credentials))
	} else {
		opt = option.WithCredentialsFile(cfg.Credentials)
	}
	srv, err := sheets.NewService(ctx, opt, option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("Sheets サービスの作成に失敗しました: %w", err)
	}
	return newSheets(serviceValues{srv: srv}, cfg, logger), nil
}

func newSheets(values valuesAPI, cfg SheetsConfig, logger *zap.Logger) *Sheets {
	if cfg.SheetName == "" {
		cfg.SheetName = DefaultSheetName
	}
	if cfg.Retry.MaxRetries == 0 && cfg.Retry.InitialInterval == 0 {
		cfg.Retry = retry.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sheets{
		values:        values,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		retryConfig:   cfg.Retry,
		logger:        logger,
	}
}

// SeenURLs は URL 列 (E列) の値を読み出します。
func (s *Sheets) SeenURLs(ctx context.Context) ([]string, error) {
	rng := s.a1(URLColumn + ":" + URLColumn)

	var rows [][]interface{}
	err := retry.Do(ctx, s.retryConfig, fmt.Sprintf("シート(%s)の読み込み", rng), func() error {
		var getErr error
		rows, getErr = s.values.Get(ctx, s.spreadsheetID, rng)
		return getErr
	}, isRetryableAPIError)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(rows))
	for _, r := range rows {
		if len(r) == 0 {
			continue
		}
		if v := strings.TrimSpace(fmt.Sprint(r[0])); isURL(v) {
			urls = append(urls, v)
		}
	}
	s.logger.Debug("既出URLを読み込みました", zap.String("range", rng), zap.Int("count", len(urls)))
	return urls, nil
}

// Append は rows を1回の API 呼び出しで末尾に追記します。
func (s *Sheets) Append(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		values[i] = r.SheetValues()
	}
	rng := s.a1("A1")

	return retry.Do(ctx, s.retryConfig, fmt.Sprintf("シート(%s)への追記", rng), func() error {
		return s.values.Append(ctx, s.spreadsheetID, rng, values)
	}, isRetryableAppendError)
}

// Close は何もしません。
func (s *Sheets) Close() error {
	return nil
}

// a1 はシート名を引用符で囲んだA1表記の範囲を返します。
func (s *Sheets) a1(cells string) string {
	return "'" + strings.ReplaceAll(s.sheetName, "'", "''") + "'!" + cells
}

// isRetryableAPIError は 429 と 5xx、およびAPIエラー以外 (ネットワークエラー等) をリトライ対象とします。
func isRetryableAPIError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// isRetryableAppendError は 429 のみをリトライ対象とします。
// 追記は冪等でないため、5xx やネットワークエラーでは書き込み済みの可能性があり再送しません。
func isRetryableAppendError(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests
}
