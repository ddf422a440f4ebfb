package codec

import "bytes"

// Bound limits one end of a range scan. Keys compare byte-lexicographically,
// the engine's native order.
type Bound struct {
	Key       []byte
	Inclusive bool
}

// Inclusive returns a bound that admits key itself.
func Inclusive(key []byte) *Bound {
	return &Bound{Key: key, Inclusive: true}
}

// Exclusive returns a bound that stops short of key.
func Exclusive(key []byte) *Bound {
	return &Bound{Key: key}
}

// IsSet reports whether the bound restricts anything. An empty key is no bound.
func (b *Bound) IsSet() bool {
	return b != nil && len(b.Key) > 0
}

// Clone deep-copies the bound, returning nil for an unset bound.
func (b *Bound) Clone() *Bound {
	if !b.IsSet() {
		return nil
	}
	return &Bound{Key: append([]byte(nil), b.Key...), Inclusive: b.Inclusive}
}

// BeyondUpper reports whether key lies past the upper bound b.
func (b *Bound) BeyondUpper(key []byte) bool {
	if !b.IsSet() {
		return false
	}
	cmp := bytes.Compare(key, b.Key)
	return cmp > 0 || (cmp == 0 && !b.Inclusive)
}

// SkipsLower reports whether key sits exactly on an exclusive lower bound b.
func (b *Bound) SkipsLower(key []byte) bool {
	return b.IsSet() && !b.Inclusive && bytes.Equal(key, b.Key)
}

// InRange reports whether key falls between lower and upper.
func InRange(key []byte, lower, upper *Bound) bool {
	if lower.IsSet() {
		cmp := bytes.Compare(key, lower.Key)
		if cmp < 0 || (cmp == 0 && !lower.Inclusive) {
			return false
		}
	}
	return !upper.BeyondUpper(key)
}
