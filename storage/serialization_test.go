package storage

import (
	"testing"
	"time"

	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/shopsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHistory() []core.HistoryItem {
	now := time.Date(2025, 3, 14, 9, 30, 0, 123456789, time.UTC)
	return []core.HistoryItem{
		{
			SearchResult: core.SearchResult{
				Id:          "staff-42",
				Type:        core.ResultTypeStaff,
				Title:       "João Silva",
				Description: "joao@barbearia.com",
				Href:        "/staff?search=Jo%C3%A3o+Silva",
				Score:       75,
				Metadata:    map[string]string{"role": "barber", "email": "joao@barbearia.com", "status": "active"},
			},
			SearchedAt: now,
			ClickCount: 3,
		},
		{
			SearchResult: core.SearchResult{
				Id:    "page-agenda",
				Type:  core.ResultTypePage,
				Title: "Agenda",
				Href:  "/agenda",
			},
			SearchedAt: now.Add(-time.Hour),
			ClickCount: 1,
		},
	}
}

func TestMarshalUnmarshalHistory(t *testing.T) {
	tests := []struct {
		name  string
		items []core.HistoryItem
	}{
		{"empty list", []core.HistoryItem{}},
		{"items", sampleHistory()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalHistory(tt.items)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalHistory(data)
			require.NoError(t, err)
			assert.Equal(t, tt.items, decoded)
		})
	}
}

func TestMarshalHistory_Deterministic(t *testing.T) {
	items := sampleHistory()
	first := MarshalHistory(items)
	for range 10 {
		assert.Equal(t, first, MarshalHistory(items))
	}
}

func TestUnmarshalHistory_Invalid(t *testing.T) {
	valid := MarshalHistory(sampleHistory())

	t.Run("empty data", func(t *testing.T) {
		_, err := UnmarshalHistory([]byte{})
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("unknown version", func(t *testing.T) {
		data := encodeHeader(historyFormatVersion+1, 0)
		_, err := UnmarshalHistory(data)
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := UnmarshalHistory(valid[:len(valid)/2])
		assert.Error(t, err)
	})

	t.Run("inflated count", func(t *testing.T) {
		data := encodeHeader(historyFormatVersion, 1000)
		_, err := UnmarshalHistory(data)
		assert.ErrorIs(t, err, ErrTruncatedData)
	})
}

func encodeHeader(version, count int) []byte {
	buf := make([]byte, varint.Int.Size(version)+varint.Int.Size(count))
	n := varint.Int.Marshal(version, buf)
	varint.Int.Marshal(count, buf[n:])
	return buf
}
