package firebase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToStringSlice(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []string
	}{
		{name: "missing field", raw: nil, want: []string{}},
		{name: "wrong type", raw: "andes-cafe", want: []string{}},
		{name: "keeps order", raw: []any{"b", "a"}, want: []string{"b", "a"}},
		{name: "drops non strings", raw: []any{"a", int64(3), nil, "c"}, want: []string{"a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toStringSlice(tt.raw))
		})
	}
}
