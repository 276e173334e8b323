package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTerm(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Azúcar", "azucar"},
		{"  CAFÉ Orgánico  ", "cafe organico"},
		{"panela", "panela"},
		{"ñame", "name"}, // la eñe también pierde la tilde al descomponer
		{"   ", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeTerm(c.in), c.in)
	}
}
