package validation

import (
	"math"
	"net/mail"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func ValidateUsername(username string) bool {
	username = NormalizeUsername(username)
	return usernameRe.MatchString(username)
}

func PasswordMinLength() int {
	minStr := os.Getenv("PASSWORD_MIN_LENGTH")
	if minStr == "" {
		return 10
	}
	min, err := strconv.Atoi(minStr)
	if err != nil || min < 8 {
		return 10
	}
	return min
}

func ValidatePassword(password string) bool {
	return len(password) >= PasswordMinLength()
}

// ValidateRating accepts half-star ratings between 0.5 and 5.0.
func ValidateRating(rating float64) bool {
	if rating < 0.5 || rating > 5.0 {
		return false
	}
	doubled := rating * 2
	return doubled == math.Trunc(doubled)
}

// NormalizeISBN strips separators and upper-cases a raw ISBN string.
func NormalizeISBN(isbn string) string {
	isbn = strings.ToUpper(strings.TrimSpace(isbn))
	isbn = strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(isbn, " ", "")
}

// ValidateISBN13 checks length, digits and the mod-10 check digit.
func ValidateISBN13(isbn string) bool {
	isbn = NormalizeISBN(isbn)
	if len(isbn) != 13 {
		return false
	}
	sum := 0
	for i, r := range isbn {
		if r < '0' || r > '9' {
			return false
		}
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return sum%10 == 0
}

func MaxCommentLength() int {
	maxStr := os.Getenv("MAX_COMMENT_LENGTH")
	if maxStr == "" {
		return 4000
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return 4000
	}
	return max
}

func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}
