package bot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseCredential(t *testing.T) {
	content := "Some accounts page.\n\n#bot>GameAccount:hunter2-swordfish\n"
	cred, err := ParseCredential(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cred.Username != "GameAccount" || cred.Password != "hunter2-swordfish" {
		t.Fatalf("unexpected credential %+v", cred)
	}
}

func TestParseCredentialEscapedMarker(t *testing.T) {
	// Wiki markdown HTML-escapes the ">".
	cred, err := ParseCredential("#bot&gt;GameAccount:pass123")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cred.Username != "GameAccount" || cred.Password != "pass123" {
		t.Fatalf("unexpected credential %+v", cred)
	}
}

func TestParseCredentialMissing(t *testing.T) {
	if _, err := ParseCredential("nothing to see here"); err == nil {
		t.Fatal("expected error for page without credential line")
	}
}

func TestReplaceCredential(t *testing.T) {
	content := "Header.\n\n#bot>GameAccount:oldpass\n\nFooter."
	updated := ReplaceCredential(content, Credential{Username: "GameAccount", Password: "newpass"})
	if !strings.Contains(updated, "#bot>GameAccount:newpass") {
		t.Fatalf("credential not replaced:\n%s", updated)
	}
	if strings.Contains(updated, "oldpass") {
		t.Fatalf("old password still present:\n%s", updated)
	}
	if !strings.Contains(updated, "Header.") || !strings.Contains(updated, "Footer.") {
		t.Fatalf("surrounding content lost:\n%s", updated)
	}
}

func TestReplaceCredentialAppendsWhenMissing(t *testing.T) {
	updated := ReplaceCredential("Empty page.", Credential{Username: "GameAccount", Password: "pass"})
	if !strings.Contains(updated, "#bot>GameAccount:pass") {
		t.Fatalf("credential line not appended:\n%s", updated)
	}

	roundTrip, err := ParseCredential(updated)
	if err != nil {
		t.Fatalf("parse after append: %v", err)
	}
	if roundTrip.Password != "pass" {
		t.Fatalf("unexpected password %q", roundTrip.Password)
	}
}

func TestGeneratePasswordFromWordlist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wordlist.txt")
	if err := os.WriteFile(path, []byte("alpha\nbravo\ncharlie\n"), 0o644); err != nil {
		t.Fatalf("write wordlist: %v", err)
	}
	password := GeneratePassword(path)
	parts := strings.Split(password, "-")
	if len(parts) != 3 {
		t.Fatalf("expected three words, got %q", password)
	}
	for _, part := range parts {
		if part != "alpha" && part != "bravo" && part != "charlie" {
			t.Fatalf("unexpected word %q in %q", part, password)
		}
	}
}

func TestGeneratePasswordFallback(t *testing.T) {
	password := GeneratePassword(filepath.Join(t.TempDir(), "missing.txt"))
	if len(password) < 20 {
		t.Fatalf("fallback password too short: %q", password)
	}
	if strings.ContainsAny(password, "+/=") {
		t.Fatalf("fallback password is not urlsafe: %q", password)
	}
}
