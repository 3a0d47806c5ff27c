package daily

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Garden crops (Horticulture)", "G_____ c____ (H___________)"},
		{"Computer science, information & general works", "C_______ s______, i__________ & g______ w____"},
		{"[Unassigned]", "[U_________]"},
		{"Arts & recreation 700-799", "A___ & r_________ 700-799"},
		{"a b", "a b"},
		{"Non-Christian", "N__-C________"},
		{"Église", "É_____"},
		{"   ", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.in))
		})
	}
}

func TestMask_PreservesLength(t *testing.T) {
	for _, s := range []string{"Garden crops (Horticulture)", "Économie politique", "x"} {
		assert.Equal(t, utf8.RuneCountInString(s), utf8.RuneCountInString(Mask(s)))
	}
}
