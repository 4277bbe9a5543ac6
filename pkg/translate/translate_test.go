package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	text      string
	err       error
	gotModel  string
	gotPrompt string
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotPrompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}, Role: "model"}},
		},
	}, nil
}

func TestGeminiTranslate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fm := &fakeModels{text: "「防水 收纳包」\n解释: ..."}
		g := newGemini(fm, "")

		out, err := g.Translate(context.Background(), " 防水 バッグ ")
		require.NoError(t, err)
		assert.Equal(t, "防水 收纳包", out)
		assert.Equal(t, DefaultModel, fm.gotModel)
		assert.Equal(t, "防水 バッグ", fm.gotPrompt)
	})

	t.Run("api_error", func(t *testing.T) {
		g := newGemini(&fakeModels{err: errors.New("quota exceeded")}, "gemini-x")
		_, err := g.Translate(context.Background(), "バッグ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("empty_input_skips_call", func(t *testing.T) {
		fm := &fakeModels{text: "x"}
		out, err := newGemini(fm, "").Translate(context.Background(), "  ")
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Empty(t, fm.gotModel)
	})
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	assert.Error(t, err)
}

type stubTranslator struct {
	out string
	err error
}

func (s stubTranslator) Translate(context.Context, string) (string, error) {
	return s.out, s.err
}

func TestOrOriginal(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		tr   Translator
		want string
	}{
		{"translated", stubTranslator{out: "收纳包"}, "收纳包"},
		{"error_falls_back", stubTranslator{err: errors.New("boom")}, "収納バッグ"},
		{"empty_falls_back", stubTranslator{out: "  "}, "収納バッグ"},
		{"nil_translator", nil, "収納バッグ"},
		{"nop", Nop{}, "収納バッグ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrOriginal(ctx, tt.tr, "収納バッグ", nil))
		})
	}
}
