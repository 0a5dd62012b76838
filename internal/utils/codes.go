package utils

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	prefixLen    = 3
	prefixFiller = 'X'
)

// MakeHotelPrefix derives the 3-letter code prefix from a hotel name: first
// letter of up to the first three words, uppercased, padded with 'X' when the
// name has fewer words. "Eko Hotel Lagos" -> "EHL", "Azure" -> "AXX".
func MakeHotelPrefix(hotelName string) string {
	words := strings.Fields(strings.TrimSpace(hotelName))
	if len(words) == 0 {
		return strings.Repeat(string(prefixFiller), prefixLen)
	}

	var b strings.Builder
	for i, w := range words {
		if i == prefixLen {
			break
		}
		b.WriteRune(unicode.ToUpper(firstLetter(w)))
	}

	prefix := b.String()
	for len(prefix) < prefixLen {
		prefix += string(prefixFiller)
	}
	return prefix
}

func firstLetter(word string) rune {
	for _, r := range word {
		return r
	}
	return prefixFiller
}

// FormatCodeLabel builds the human-readable check-in code label from a hotel
// prefix and its sequence number, e.g. ("EHL", 94) -> "EHL-094".
func FormatCodeLabel(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}
