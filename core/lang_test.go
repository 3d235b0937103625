package core

import "testing"

func TestIsCanonicalLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "plain english",
			text: "Senior Software Engineer",
			want: true,
		},
		{
			name: "empty string",
			text: "",
			want: true,
		},
		{
			name: "cyrillic text",
			text: "Старший инженер-программист",
			want: false,
		},
		{
			name: "single cyrillic rune",
			text: "Senior Engineer в Acme",
			want: false,
		},
		{
			name: "mostly non-ascii without cyrillic",
			text: "日本語のテキストである",
			want: false,
		},
		{
			name: "ascii with light accents",
			text: "Résumé screening for engineers",
			want: true,
		},
		{
			name: "digits and punctuation",
			text: "C++ developer, 5+ years",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCanonicalLanguage(tt.text); got != tt.want {
				t.Errorf("IsCanonicalLanguage(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
