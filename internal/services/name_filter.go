package services

import (
	"regexp"
)

// BannedWords are rejected as whole words in names other users can see.
var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"scam", "scammer", "phishing", "malware",
}

var (
	bannedWordRegexps = compileBannedWords(BannedWords)
	urlPattern        = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	emailPattern      = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

func compileBannedWords(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, word := range words {
		out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return out
}

// CheckPublicName validates a nickname or room name that other members will
// see. field names the value in the returned validation message.
func CheckPublicName(field, text string) error {
	if text == "" {
		return nil
	}
	for _, re := range bannedWordRegexps {
		if re.MatchString(text) {
			return Validation("%s contains inappropriate language", field)
		}
	}
	if urlPattern.MatchString(text) {
		return Validation("%s must not contain links", field)
	}
	if emailPattern.MatchString(text) {
		return Validation("%s must not contain contact information", field)
	}
	if repeatedCharacters(text) {
		return Validation("%s looks like spam", field)
	}
	return nil
}

// repeatedCharacters reports a run of eight or more identical runes.
func repeatedCharacters(text string) bool {
	var (
		prev rune
		run  int
	)
	for _, r := range text {
		if r == prev {
			run++
			if run >= 8 {
				return true
			}
			continue
		}
		prev, run = r, 1
	}
	return false
}
