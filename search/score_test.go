package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		title       string
		description string
		metadata    map[string]string
		want        int
	}{
		{"empty query", "", "João", "", nil, 0},
		{"blank query", "   ", "João", "", nil, 0},
		{"exact match ignores case and accents", "joão", "João", "", nil, 100},
		{"exact match ignores description", "joao", "JOAO", "joao joao", nil, 100},
		{"whole word", "silva", "João Silva", "", nil, 75},
		{"whole word with accents", "joao", "João Silva", "", nil, 75},
		{"title prefix", "jo", "João Silva", "", nil, 55},
		{"word prefix", "sil", "João Silva", "", nil, 45},
		{"substring", "ilv", "João Silva", "", nil, 35},
		{"description only", "corte", "Serviços", "Corte de cabelo masculino", nil, 22},
		{"metadata only", "gerente", "Ana", "", map[string]string{"role": "Gerente"}, 5},
		{"distinct query words", "barba barba", "Barba e bigode", "", nil, 5},
		{"partial word overlap", "silva xyz-nomatch", "João Silva", "", nil, 5},
		{"no match", "tesoura", "João Silva", "Barbeiro", nil, 0},
		{"clamped", "corte", "Corte Degradê", "corte corte", map[string]string{"tag": "corte"}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.query, tt.title, tt.description, tt.metadata))
		})
	}
}

func TestScore_Bounds(t *testing.T) {
	texts := []string{"", " ", "a", "João Silva", "Corte de cabelo", "aaaa aaaa", "(.*)", `\b`, "日本語 テキスト"}
	meta := map[string]string{"email": "joao@barbearia.com", "role": "barber"}

	for _, q := range texts {
		for _, title := range texts {
			for _, desc := range texts {
				score := Score(q, title, desc, meta)
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, 100)
			}
			assert.Equal(t, 0, Score("", title, q, meta))
		}
	}
}

func TestScore_TierPrecedence(t *testing.T) {
	title := "João Silva"

	exact := Score("joão silva", title, "", nil)
	prefix := Score("jo", title, "", nil)
	partial := Score("silva xyz-nomatch", title, "", nil)

	assert.Equal(t, 100, exact)
	assert.GreaterOrEqual(t, exact, prefix)
	assert.GreaterOrEqual(t, prefix, partial)
}

func TestScore_RegexMetacharacters(t *testing.T) {
	assert.Equal(t, 0, Score("(.*)", "João", "", nil))
	assert.Equal(t, 100, Score("c++", "C++", "", nil))
}

func TestSerializeMetadata(t *testing.T) {
	got := serializeMetadata(map[string]string{"role": "barber", "email": "a&b@shop.com"})
	assert.Equal(t, `{"email":"a&b@shop.com","role":"barber"}`, got)
}
