/*
Package translate は、仕入れ先検索用にキーワードを日本語から簡体字中国語へ翻訳します。
翻訳は付加情報であり、失敗しても元のテキストで処理を続けます。
*/
package translate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel は翻訳に使う Gemini モデルです。
const DefaultModel = "gemini-2.5-flash"

const systemInstruction = `You translate Japanese product keywords into Simplified Chinese search terms for the 1688.com marketplace.
Output only the translated keywords on a single line. No explanations, no quotes, no romanization.
Keep brand names and model numbers as they are.`

// Translator は、テキストを翻訳する機能のインターフェースを定義します。
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// contentGenerator は genai の Models が満たすインターフェースです。
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini は Gemini API による Translator の実装です。
type Gemini struct {
	models contentGenerator
	model  string
}

// NewGemini は Gemini API クライアントを生成します。
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini APIキーが設定されていません")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの作成に失敗しました: %w", err)
	}
	return newGemini(client.Models, model), nil
}

func newGemini(models contentGenerator, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{models: models, model: model}
}

// Translate は text を簡体字中国語に翻訳します。
func (g *Gemini) Translate(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{{Text: text}},
			Role:  "user",
		},
	}
	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API の呼び出しに失敗しました: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("Gemini API から応答がありません")
	}
	return cleanOutput(resp.Text()), nil
}

// cleanOutput はモデル出力の先頭行から引用符や余分な空白を取り除きます。
func cleanOutput(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "\"'`「」“” ")
	return strings.Join(strings.Fields(s), " ")
}

// Nop は入力をそのまま返す Translator です。
type Nop struct{}

func (Nop) Translate(_ context.Context, text string) (string, error) {
	return text, nil
}

// OrOriginal は翻訳結果を返し、エラーまたは空の結果の場合は元のテキストを返します。
func OrOriginal(ctx context.Context, t Translator, text string, logger *zap.Logger) string {
	if t == nil {
		return text
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	out, err := t.Translate(ctx, text)
	if err != nil {
		logger.Warn("翻訳に失敗したため元のテキストを使用します", zap.String("text", text), zap.Error(err))
		return text
	}
	out = strings.TrimSpace(out)
	if out == "" {
		logger.Warn("翻訳結果が空のため元のテキストを使用します", zap.String("text", text))
		return text
	}
	return out
}
