package ddoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortNames(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "plain names sorted lexicographically",
			input: []string{"rwn.txt", "abc.txt", "lkm.txt"},
			want:  []string{"abc.txt", "lkm.txt", "rwn.txt"},
		},
		{
			name:  "two dev names",
			input: []string{"dev_opr.txt", "dev_erg.txt"},
			want:  []string{"dev_erg.txt", "dev_opr.txt"},
		},
		{
			name:  "dev names move to the front",
			input: []string{"abc.txt", "dev_opr.txt", "dev_erg.txt"},
			want:  []string{"dev_erg.txt", "dev_opr.txt", "abc.txt"},
		},
		{
			name:  "dev before names that sort earlier",
			input: []string{"zzz", "aaa", "dev_zzz", "Dev_aaa", "dev_aaa"},
			want:  []string{"dev_aaa", "dev_zzz", "Dev_aaa", "aaa", "zzz"},
		},
		{
			name:  "prefix must match exactly",
			input: []string{"devx", "dev", "dev_"},
			want:  []string{"dev_", "dev", "devx"},
		},
		{
			name:  "empty",
			input: []string{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]string(nil), tt.input...)
			if got == nil {
				got = []string{}
			}
			SortNames(got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDevFirstLessIsStrict(t *testing.T) {
	names := []string{"abc", "dev_abc", "dev_", "z", ""}
	for _, a := range names {
		assert.False(t, DevFirstLess(a, a), "DevFirstLess(%q, %q) must be false", a, a)
		for _, b := range names {
			if a == b {
				continue
			}
			assert.NotEqual(t, DevFirstLess(a, b), DevFirstLess(b, a),
				"exactly one of %q<%q and %q<%q must hold", a, b, b, a)
		}
	}
}
