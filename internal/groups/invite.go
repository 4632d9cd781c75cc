package groups

import (
	"regexp"
	"strings"
)

// Invite codes are exactly 22 alphanumeric characters, pasted either
// as a chat.whatsapp.com link or bare.
var (
	linkPattern = regexp.MustCompile(`chat\.whatsapp\.com/([A-Za-z0-9]{22})`)
	barePattern = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)
)

// ExtractInviteCode pulls the invite code out of a pasted link or bare
// code. The second return is false when the input holds no code.
func ExtractInviteCode(input string) (string, bool) {
	if m := linkPattern.FindStringSubmatch(input); m != nil {
		return m[1], true
	}

	trimmed := strings.TrimSpace(input)
	if barePattern.MatchString(trimmed) {
		return trimmed, true
	}

	return "", false
}

// ExtractInviteCodes extracts every valid code from a batch of pasted
// lines, preserving order and dropping lines without one.
func ExtractInviteCodes(lines []string) []string {
	var codes []string

	for _, line := range lines {
		if code, ok := ExtractInviteCode(line); ok {
			codes = append(codes, code)
		}
	}

	return codes
}
