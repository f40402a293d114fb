package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt and reads a single trimmed line. A partial
// line followed by EOF is still returned.
func GetSimpleText(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Println(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetSecret reads a token from the terminal without echo. Access tokens show
// up in shell history otherwise.
func GetSecret(prompt string) (string, error) {
	fmt.Print(prompt + ": ")
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

// GetInt reads a line and parses it as a non-negative integer. An empty line
// yields zero.
func GetInt(reader *bufio.Reader, prompt string) (int, error) {
	text, err := GetSimpleText(reader, prompt)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("expected a non-negative number, got %q", text)
	}
	return n, nil
}

// GetList reads a comma-separated line and splits it into trimmed items.
func GetList(reader *bufio.Reader, prompt string) ([]string, error) {
	text, err := GetSimpleText(reader, prompt)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	parts := strings.Split(text, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items, nil
}
