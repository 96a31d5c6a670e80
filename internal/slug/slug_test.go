package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Spider-Man (Symbiote)": "spider-man-symbiote",
		"  Pokémon   Wave 2 ":   "pokemon-wave-2",
		"Ça va?!":               "ca-va",
		"ＦＵＬＬ　ＷＩＤＴＨ":          "full-width",
		"---":                   "",
		"X-Men '97":             "x-men-97",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), "Make(%q)", in)
	}
}

func TestUnique(t *testing.T) {
	used := map[string]bool{"hulk": true, "hulk-2": true}
	taken := func(s string) bool { return used[s] }

	assert.Equal(t, "hulk-3", Unique("Hulk", taken))
	assert.Equal(t, "thor", Unique("Thor", taken))
	assert.Equal(t, "item", Unique("!!!", taken))
}

func TestBase(t *testing.T) {
	assert.Equal(t, "black-panther", Base("Black Panther"))
	assert.Equal(t, "item", Base("***"))
	assert.Equal(t, "item-2", Unique("***", func(s string) bool { return s == Base("???") }))
}
