package generation

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	// NumberLength is the length of every issued PAN, check digit included.
	NumberLength = 16

	// DefaultPrefix is used for network types without a registered prefix.
	DefaultPrefix = "9"

	// MaxValidityYears bounds how far in the future an expiration may be set.
	MaxValidityYears = 10
)

// networkPrefixes maps lowercase network names to their leading digits.
var networkPrefixes = map[string]string{
	"visa":       "4",
	"mastercard": "52",
	"discover":   "6011",
	"jcb":        "3528",
	"unionpay":   "62",
}

// LuhnIssuer issues random Luhn-valid 16 digit numbers. Expiration is the
// last instant of the issue month, validityYears later, in UTC.
type LuhnIssuer struct {
	validityYears int
	random        io.Reader
	timeFunc      func() time.Time
}

// IssuerOption configures a LuhnIssuer.
type IssuerOption func(*LuhnIssuer)

// WithRandom replaces the entropy source. Intended for tests.
func WithRandom(r io.Reader) IssuerOption {
	return func(i *LuhnIssuer) {
		i.random = r
	}
}

// WithTimeFunc replaces the clock used to compute expiration dates.
func WithTimeFunc(fn func() time.Time) IssuerOption {
	return func(i *LuhnIssuer) {
		i.timeFunc = fn
	}
}

// NewLuhnIssuer creates an issuer whose cards are valid for validityYears.
func NewLuhnIssuer(validityYears int, opts ...IssuerOption) (*LuhnIssuer, error) {
	if validityYears < 1 || validityYears > MaxValidityYears {
		return nil, fmt.Errorf("%w: validity years must be between 1 and %d, got %d",
			ErrInvalidConfig, MaxValidityYears, validityYears)
	}

	issuer := &LuhnIssuer{
		validityYears: validityYears,
		random:        rand.Reader,
		timeFunc:      time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}

	return issuer, nil
}

// Issue implements CardIssuer.
func (i *LuhnIssuer) Issue(ctx context.Context, cardType string) (*IssuedCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := PrefixFor(cardType)
	digits, err := randomDigits(i.random, NumberLength-1-len(prefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIssueFailed, err)
	}

	body := prefix + digits
	return &IssuedCard{
		Number:         body + luhnCheckDigit(body),
		ExpirationDate: ExpirationFor(i.timeFunc(), i.validityYears),
	}, nil
}

// PrefixFor returns the leading digits for a network type.
func PrefixFor(cardType string) string {
	if prefix, ok := networkPrefixes[strings.ToLower(strings.TrimSpace(cardType))]; ok {
		return prefix
	}
	return DefaultPrefix
}

// ExpirationFor returns the last nanosecond of issued's month, years later, in UTC.
func ExpirationFor(issued time.Time, years int) time.Time {
	t := issued.UTC()
	firstOfNextMonth := time.Date(t.Year()+years, t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNextMonth.Add(-time.Nanosecond)
}

// ValidNumber reports whether number is all digits and passes the Luhn check.
func ValidNumber(number string) bool {
	if len(number) < 2 {
		return false
	}
	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return false
		}
	}
	body := number[:len(number)-1]
	return number[len(number)-1] == luhnCheckDigit(body)[0]
}

// randomDigits draws count uniformly distributed decimal digits from r.
// Bytes >= 250 are rejected so that every digit is equally likely.
func randomDigits(r io.Reader, count int) (string, error) {
	const threshold = 250

	var sb strings.Builder
	sb.Grow(count)
	buf := make([]byte, 32)
	for sb.Len() < count {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for j := 0; j < len(buf) && sb.Len() < count; j++ {
			if buf[j] < threshold {
				sb.WriteByte('0' + buf[j]%10)
			}
		}
	}
	return sb.String(), nil
}

func luhnCheckDigit(body string) string {
	sum, double := 0, true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return string(rune('0' + (10-sum%10)%10))
}
