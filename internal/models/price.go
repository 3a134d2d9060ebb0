package models

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Price is a fixed-point amount with two fraction digits, held in cents.
type Price int64

// MaxPrice is the largest price accepted (five significant digits).
const MaxPrice Price = 99999

var ErrInvalidPrice = errors.New("a valid number is required")

// ParsePrice reads a decimal such as "5.5", "5.50" or "12".
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" && (!hasDot || frac == "") {
		return 0, ErrInvalidPrice
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, ErrInvalidPrice
	}
	if len(frac) > 2 {
		return 0, errors.New("ensure that there are no more than 2 decimal places")
	}
	whole = strings.TrimLeft(whole, "0")
	if len(whole) > 3 {
		return 0, errors.New("ensure that there are no more than 5 digits in total")
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, _ := strconv.ParseInt("0"+whole, 10, 64)
	f, _ := strconv.ParseInt(frac, 10, 64)
	p := Price(w*100 + f)
	if neg {
		p = -p
	}
	return p, nil
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (p Price) String() string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders the price as a quoted decimal string ("5.50").
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// UnmarshalJSON accepts both "5.50" and 5.5.
func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return ErrInvalidPrice
		}
		b = []byte(s)
	}
	v, err := ParsePrice(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
