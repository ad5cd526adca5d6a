package playlist

import (
	"math"
	"strconv"
	"strings"
)

// NoSortKey is the sort key of names without a leading number.
// It orders after every numeric key.
const NoSortKey = math.MaxInt

// overflowSortKey is used for leading numbers too large for an int.
// They still order before un-numbered names.
const overflowSortKey = NoSortKey - 1

const (
	titlePrefix = "Tập "
	titleDigits = 3
)

// Normalize derives the display title and sort key from a file name.
//
//	"7.mp3"         -> "Tập 007", 7
//	"012 Intro.mp3" -> "Tập 012", 12
//	"intro.mp3"     -> "intro.mp3", NoSortKey
func Normalize(name string) (title string, sortKey int) {
	digits := leadingDigits(name)
	if digits == "" {
		return name, NoSortKey
	}

	padded := digits
	if len(padded) < titleDigits {
		padded = strings.Repeat("0", titleDigits-len(padded)) + padded
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n >= overflowSortKey {
		n = overflowSortKey
	}
	return titlePrefix + padded, n
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}
