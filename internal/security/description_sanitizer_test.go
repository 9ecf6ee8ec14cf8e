package security

import (
	"strings"
	"testing"
)

// 許可タグが通過することを検証
func TestDescriptionSanitizer_AllowsBasicFormatting(t *testing.T) {
	s := NewDescriptionSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"段落", "<p>南向きの明るい部屋です。</p>", "<p>南向きの明るい部屋です。</p>"},
		{"強調", "<strong>駅徒歩5分</strong>", "<strong>駅徒歩5分</strong>"},
		{"リスト", "<ul><li>ペット可</li></ul>", "<ul><li>ペット可</li></ul>"},
		{"改行", "1階<br>2階", "1階<br>2階"},
		{"プレーンテキスト", "築10年のアパートです", "築10年のアパートです"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// 危険なタグ・属性が除去されることを検証
func TestDescriptionSanitizer_RemovesDangerousContent(t *testing.T) {
	s := NewDescriptionSanitizer()

	tests := []struct {
		name      string
		input     string
		forbidden []string
	}{
		{"scriptタグ", `<p>great</p><script>alert("xss")</script>`, []string{"<script", "alert"}},
		{"iframeタグ", `<iframe src="https://evil.example"></iframe>`, []string{"<iframe"}},
		{"イベント属性", `<p onclick="steal()">click</p>`, []string{"onclick"}},
		{"リンク", `<a href="https://phish.example">お得情報</a>`, []string{"<a", "href"}},
		{"画像", `<img src="https://evil.example/x.png">`, []string{"<img"}},
		{"styleタグ", `<style>body{display:none}</style>`, []string{"<style"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			for _, f := range tt.forbidden {
				if strings.Contains(got, f) {
					t.Errorf("Sanitize(%q) = %q, should not contain %q", tt.input, got, f)
				}
			}
		})
	}
}

// 空文字列入力に空文字列を返すことを検証
func TestDescriptionSanitizer_EmptyInput(t *testing.T) {
	s := NewDescriptionSanitizer()

	if got := s.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want \"\"", got)
	}
}

// 同一入力に対して冪等であることを検証
func TestDescriptionSanitizer_Idempotent(t *testing.T) {
	s := NewDescriptionSanitizer()

	input := `<p>広い<strong>リビング</strong></p><script>x()</script>`
	once := s.Sanitize(input)
	twice := s.Sanitize(once)

	if once != twice {
		t.Errorf("Sanitize is not idempotent: %q != %q", once, twice)
	}
}
