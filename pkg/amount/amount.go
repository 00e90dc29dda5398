// Package amount converts user supplied token quantities to and from a
// token's smallest unit.
package amount

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount format")

var literalPattern = regexp.MustCompile(`^([0-9]+\.?[0-9]*|\.[0-9]+)$`)

// Requirement is a quantity an operation needs: either a human readable
// literal ("0.05", 12) or a value that is already in smallest units.
type Requirement struct {
	literal string
	base    *big.Int
}

func FromString(s string) Requirement {
	return Requirement{literal: s}
}

func FromFloat(f float64) Requirement {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Requirement{literal: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return Requirement{literal: strconv.FormatFloat(f, 'f', -1, 64)}
}

// FromBaseUnits wraps a value that is already scaled to the smallest unit.
func FromBaseUnits(v *big.Int) Requirement {
	if v == nil {
		v = new(big.Int)
	}
	return Requirement{base: new(big.Int).Set(v)}
}

func (r Requirement) String() string {
	if r.base != nil {
		return r.base.String()
	}
	return r.literal
}

// ToBaseUnits converts the requirement using the token decimals. Malformed
// literals, negative values and precision finer than the token supports
// return ErrInvalidAmount.
func (r Requirement) ToBaseUnits(decimals uint8) (*big.Int, error) {
	if r.base != nil {
		if r.base.Sign() < 0 {
			return nil, errors.Wrap(ErrInvalidAmount, "negative amount")
		}
		return new(big.Int).Set(r.base), nil
	}
	return ParseUnits(r.literal, decimals)
}

// ParseUnits parses a decimal literal into smallest units.
func ParseUnits(s string, decimals uint8) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if !literalPattern.MatchString(s) {
		return nil, errors.Wrapf(ErrInvalidAmount, "%q", s)
	}
	s = strings.TrimSuffix(s, ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAmount, "%q: %v", s, err)
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, errors.Wrapf(ErrInvalidAmount, "%q has more than %d decimals", s, decimals)
	}
	return scaled.BigInt(), nil
}

// FormatUnits renders a smallest-unit value as a decimal string without
// trailing zeros.
func FormatUnits(v *big.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -int32(decimals)).String()
}

// UnmarshalJSON accepts a JSON string or number. The literal is kept as is
// and validated on conversion.
func (r *Requirement) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Requirement{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = FromString(s)
		return nil
	}
	*r = FromString(string(data))
	return nil
}

func (r Requirement) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}
