package question

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no markers",
			text: "Cover page\nSAT Practice\nA. not a question",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "front matter is discarded",
			text: "Front matter Question ID 1a2b\nfirst",
			want: []string{"\nfirst"},
		},
		{
			name: "three blocks in order",
			text: "Question ID aaa\none\nQuestion ID bbb\ntwo\nQuestion ID 0c9\nthree\n",
			want: []string{"\none\n", "\ntwo\n", "\nthree\n"},
		},
		{
			name: "uppercase hex is not a marker",
			text: "Question ID ABC\nx\nQuestion ID abc\ny",
			want: []string{"\ny"},
		},
		{
			name: "prefix without token is not a marker",
			text: "Question ID \nx",
			want: nil,
		},
		{
			name: "adjacent markers yield empty block",
			text: "Question ID aQuestion ID b",
			want: []string{"", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Split(tt.text))
			assert.Equal(t, tt.want, got)
			assert.Len(t, identifierMarker.FindAllStringIndex(tt.text, -1), len(tt.want))
		})
	}
}

func TestSplit_StopsEarly(t *testing.T) {
	text := "Question ID 1\na\nQuestion ID 2\nb\nQuestion ID 3\nc"
	var seen []string
	for block := range Split(text) {
		seen = append(seen, block)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"\na\n", "\nb\n"}, seen)
}

func TestSplit_MarkerAtEnd(t *testing.T) {
	got := slices.Collect(Split("intro Question ID 1f\nbody\nQuestion ID 2e"))
	assert.Equal(t, []string{"\nbody\n", ""}, got)
}

func TestSplit_RestartsPerRange(t *testing.T) {
	seq := Split("Question ID 1\nx\nQuestion ID 2\ny")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"\nx\n", "\ny"}, first)
}
