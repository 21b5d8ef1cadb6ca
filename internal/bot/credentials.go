package bot

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"os"
	"regexp"
	"strings"
)

// Credential is the shared account's username/password pair as stored on the
// accounts wiki page, one `#bot>username:password` line.
type Credential struct {
	Username string
	Password string
}

// Wiki markdown HTML-escapes ">", so both spellings must parse.
var credentialPattern = regexp.MustCompile(`#bot(?:>|&gt;)(\w+):(\S+)`)

func ParseCredential(content string) (Credential, error) {
	match := credentialPattern.FindStringSubmatch(content)
	if match == nil {
		return Credential{}, fmt.Errorf("no #bot credential line found")
	}
	return Credential{Username: match[1], Password: match[2]}, nil
}

// ReplaceCredential rewrites the credential line in the page content,
// appending one if the page has none yet.
func ReplaceCredential(content string, cred Credential) string {
	line := fmt.Sprintf("#bot>%s:%s", cred.Username, cred.Password)
	if credentialPattern.MatchString(content) {
		return credentialPattern.ReplaceAllString(content, line)
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + line + "\n"
}

// GeneratePassword builds a three-word password from the wordlist file, or a
// random urlsafe string when the wordlist is unavailable.
func GeneratePassword(wordlistPath string) string {
	words, err := readWordlist(wordlistPath)
	if err != nil || len(words) == 0 {
		buf := make([]byte, 30)
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand failing is not a condition worth surviving
			panic(err)
		}
		return base64.RawURLEncoding.EncodeToString(buf)
	}
	parts := make([]string, 3)
	for i := range parts {
		parts[i] = words[randomIndex(len(words))]
	}
	return strings.Join(parts, "-")
}

func readWordlist(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	return words, scanner.Err()
}

func randomIndex(n int) int {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(idx.Int64())
}
