package utils

import (
	"strings"
	"testing"
)

func TestNormalizeHandle(t *testing.T) {
	cases := map[string]string{
		"Alice":    "alice",
		"ALICE":    "alice",
		"alice":    "alice",
		"GuildTag": "guildtag",
		"":         "",
	}
	for in, want := range cases {
		if got := NormalizeHandle(in); got != want {
			t.Errorf("NormalizeHandle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidHandle(t *testing.T) {
	valid := []string{"alice", "alice99", "a", "abcdefghijklmno"}
	for _, s := range valid {
		if !ValidHandle(s, 15) {
			t.Errorf("ValidHandle(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "abcdefghijklmnop", "has space", "under_score", "dash-ed", "semi;colon"}
	for _, s := range invalid {
		if ValidHandle(s, 15) {
			t.Errorf("ValidHandle(%q) = true, want false", s)
		}
	}
}

func TestRandomLetters(t *testing.T) {
	token, err := RandomLetters(25)
	if err != nil {
		t.Fatal(err)
	}
	if len(token) != 25 {
		t.Errorf("token length = %d, want 25", len(token))
	}
	for _, c := range token {
		if !strings.ContainsRune(tokenLetters, c) {
			t.Errorf("token contains unexpected character %q", c)
		}
	}

	other, err := RandomLetters(25)
	if err != nil {
		t.Fatal(err)
	}
	if token == other {
		t.Error("two tokens came out identical")
	}
}
