package sanitize_test

import (
	"testing"

	"fotoblog/internal/lib/sanitize"

	"github.com/stretchr/testify/assert"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "spaces become underscores", input: "My First Trip", want: "My_First_Trip"},
		{name: "extension kept", input: "My cool movie.mov", want: "My_cool_movie.mov"},
		{name: "diacritics stripped", input: "Viagem à Praia", want: "Viagem_a_Praia"},
		{name: "umlauts", input: "i contain cool ümläuts.txt", want: "i_contain_cool_umlauts.txt"},
		{name: "path traversal", input: "../../../etc/passwd", want: "etc_passwd"},
		{name: "windows separators", input: `C:\photos\a.jpg`, want: "C_photos_a.jpg"},
		{name: "whitespace runs collapse", input: "  leading \t and   trailing  ", want: "leading_and_trailing"},
		{name: "unsafe characters removed", input: "hello?<world>*.png", want: "helloworld.png"},
		{name: "dots and underscores trimmed", input: "._hidden_.", want: "hidden"},
		{name: "nothing left", input: "!!!", want: ""},
		{name: "non latin only", input: "Путешествие", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize.SecureFilename(tt.input))
		})
	}
}

func TestDirName(t *testing.T) {
	t.Run("regular title", func(t *testing.T) {
		assert.Equal(t, "My_First_Trip", sanitize.DirName("My First Trip"))
	})

	t.Run("fallback when title sanitizes to nothing", func(t *testing.T) {
		assert.Equal(t, sanitize.FallbackDirName, sanitize.DirName("???"))
	})

	t.Run("same result twice", func(t *testing.T) {
		assert.Equal(t, sanitize.DirName("Día de campo"), sanitize.DirName("Día de campo"))
	})
}
