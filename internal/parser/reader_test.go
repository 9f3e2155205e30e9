package parser

import (
	"testing"

	"finguard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    rune
	}{
		{"semicolon", "a;b;c\nd;e;f\n", ';'},
		{"comma", "a,b,c\nd,e,f\n", ','},
		{"tab", "a\tb\tc\nd\te\tf\n", '\t'},
		{"pipe", "a|b|c\nd|e|f\n", '|'},
		{"semicolon beats decimal commas", "a;b;c\n1,5;2,5;3\n10;20,25;30\n", ';'},
		{"none", "no delimiters here\njust words\n", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter([]byte(tt.content)))
		})
	}
}

func TestDecodeRowsStripsBOM(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Cont;Denumire\n401;Furnizori\n")...)

	rows, delimiter, err := DecodeRows(content, models.FileMetadata{Filename: "b.csv"})
	require.NoError(t, err)
	assert.Equal(t, ';', delimiter)
	require.Len(t, rows, 2)
	assert.Equal(t, "Cont", rows[0][0])
}

func TestDecodeRowsRaggedInput(t *testing.T) {
	content := []byte("Banner line\nCont;Denumire;Valoare\n401;Furnizori;100\n")

	rows, _, err := DecodeRows(content, models.FileMetadata{Filename: "b.csv"})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Len(t, rows[1], 3)
}
