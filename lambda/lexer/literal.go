package lexer

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInvalidNumber = errors.New("invalid number literal")
	ErrInvalidString = errors.New("invalid string literal")
	ErrInvalidRegExp = errors.New("invalid regular expression literal")
)

func isUnicodeLetter(r rune) bool {
	return unicode.IsLetter(r)
}

// ParseNumber returns the numeric value of a raw number literal, the way a
// JavaScript engine would read it in sloppy mode.
func ParseNumber(raw string) (float64, error) {
	if raw == "" {
		return 0, ErrInvalidNumber
	}

	digits, err := stripSeparators(raw)
	if err != nil {
		return 0, err
	}

	if len(digits) > 2 && digits[0] == '0' {
		base := 0
		switch digits[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseInteger(digits[2:], base)
		}
	}

	// Legacy octal: 017 is 15, but 019 is a plain decimal.
	if len(digits) > 1 && digits[0] == '0' && strings.Trim(digits, "01234567") == "" {
		return parseInteger(digits[1:], 8)
	}

	for _, r := range digits {
		if !isDigit(r) && r != '.' && r != 'e' && r != 'E' && r != '+' && r != '-' {
			return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, raw)
		}
	}

	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, raw)
	}
	return f, nil
}

func parseInteger(digits string, base int) (float64, error) {
	if digits == "" {
		return 0, ErrInvalidNumber
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, digits)
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f, nil
}

// stripSeparators removes numeric separators. A separator must sit between
// two digits.
func stripSeparators(raw string) (string, error) {
	if !strings.Contains(raw, "_") {
		return raw, nil
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '_' {
			b.WriteByte(raw[i])
			continue
		}
		if i == 0 || i == len(raw)-1 || !isHexDigit(rune(raw[i-1])) || !isHexDigit(rune(raw[i+1])) {
			return "", fmt.Errorf("%w: %s", ErrInvalidNumber, raw)
		}
	}
	return b.String(), nil
}

// Unquote returns the value of a raw, quoted string literal.
func Unquote(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != raw[len(raw)-1] || (raw[0] != '"' && raw[0] != '\'') {
		return "", ErrInvalidString
	}

	s := raw[1 : len(raw)-1]
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var b strings.Builder
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		if s == "" {
			return "", ErrInvalidString
		}

		r, size = utf8.DecodeRuneInString(s)
		s = s[size:]
		switch r {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			if s != "" && isDigit(rune(s[0])) {
				return "", fmt.Errorf("%w: octal escape sequence", ErrInvalidString)
			}
			b.WriteByte(0)
		case 'x':
			if len(s) < 2 {
				return "", fmt.Errorf("%w: bad \\x escape", ErrInvalidString)
			}
			v, err := strconv.ParseUint(s[:2], 16, 8)
			if err != nil {
				return "", fmt.Errorf("%w: bad \\x escape", ErrInvalidString)
			}
			b.WriteRune(rune(v))
			s = s[2:]
		case 'u':
			v, rest, err := readUnicodeEscape(s)
			if err != nil {
				return "", err
			}
			b.WriteRune(v)
			s = rest
		case '\r':
			// Line continuation, CRLF counts as one terminator.
			s = strings.TrimPrefix(s, "\n")
		case '\n', 0x2028, 0x2029:
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func readUnicodeEscape(s string) (rune, string, error) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, "", fmt.Errorf("%w: bad \\u escape", ErrInvalidString)
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || v > unicode.MaxRune {
			return 0, "", fmt.Errorf("%w: bad \\u escape", ErrInvalidString)
		}
		return rune(v), s[end+1:], nil
	}
	if len(s) < 4 {
		return 0, "", fmt.Errorf("%w: bad \\u escape", ErrInvalidString)
	}
	v, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, "", fmt.Errorf("%w: bad \\u escape", ErrInvalidString)
	}
	return rune(v), s[4:], nil
}

// SplitRegExp splits a raw regular expression literal into its pattern and
// flags. Flags must be known and may not repeat.
func SplitRegExp(raw string) (pattern, flags string, err error) {
	end := strings.LastIndexByte(raw, '/')
	if len(raw) < 2 || raw[0] != '/' || end < 1 {
		return "", "", ErrInvalidRegExp
	}

	pattern, flags = raw[1:end], raw[end+1:]
	for i, f := range flags {
		if !strings.ContainsRune("dgimsuvy", f) || strings.ContainsRune(flags[:i], f) {
			return "", "", fmt.Errorf("%w: bad flags %q", ErrInvalidRegExp, flags)
		}
	}

	return pattern, flags, nil
}
