package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// DefaultSQLitePath はローカル台帳ファイルのデフォルトパスです。
const DefaultSQLitePath = "makuake-ledger.db"

// SQLite はローカルの SQLite ファイルを台帳とする Store の実装です。
// 同じURLの行は1度しか記録されません。
type SQLite struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite はデータベースを開き、スキーマを適用します。
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLite, error) {
	if path == "" {
		path = DefaultSQLitePath
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("SQLite のオープンに失敗しました (path: %s): %w", path, err)
	}
	// :memory: では接続ごとに別のデータベースになるため1本に制限する
	db.SetMaxOpenConns(1)

	s, err := NewSQLite(ctx, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite は既存の *sql.DB にスキーマを適用して Store を生成します。
func NewSQLite(ctx context.Context, db *sql.DB, logger *zap.Logger) (*SQLite, error) {
	if db == nil {
		return nil, fmt.Errorf("ledger.NewSQLite: db cannot be nil")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("台帳スキーマの適用に失敗しました: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLite{db: db, logger: logger}, nil
}

// SeenURLs は記録済みのURLを追記順に返します。
func (s *SQLite) SeenURLs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url FROM ledger_rows ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("既出URLの読み込みに失敗しました: %w", err)
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("既出URLの読み込みに失敗しました: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("既出URLの読み込みに失敗しました: %w", err)
	}
	return urls, nil
}

// Append は rows を1つのトランザクションで追記します。
func (s *SQLite) Append(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO ledger_rows
		(url, date, title, image_url, funding_amount, funding, amazon_state, amazon_url, rakuten_state, rakuten_url, sourcing, origin_hint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("INSERT文の準備に失敗しました: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range rows {
		res, err := stmt.ExecContext(ctx,
			r.URL, r.DateString(), r.Title, r.ImageURL, r.FundingAmount, r.Funding,
			stateString(r.Amazon.SearchURL, r.Amazon.State.String()), r.Amazon.SearchURL,
			stateString(r.Rakuten.SearchURL, r.Rakuten.State.String()), r.Rakuten.SearchURL,
			r.Sourcing.String(), r.OriginHint,
		)
		if err != nil {
			return fmt.Errorf("行の追記に失敗しました (URL: %s): %w", r.URL, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗しました: %w", err)
	}
	s.logger.Debug("台帳に追記しました", zap.Int("rows", len(rows)), zap.Int("inserted", inserted))
	return nil
}

// Close はデータベースを閉じます。
func (s *SQLite) Close() error {
	return s.db.Close()
}

// stateString は確認を行っていない列を空にします。
func stateString(searchURL, state string) string {
	if searchURL == "" {
		return ""
	}
	return state
}
