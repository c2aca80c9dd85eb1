package serial

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// maxCarry is the longest incomplete UTF-8 prefix that can trail a chunk
const maxCarry = utf8.UTFMax - 1

// textDecoder turns read chunks into UTF-8 text. When carry is enabled an
// incomplete sequence at the end of a chunk is held back and completed by the
// next chunk instead of failing the whole chunk.
type textDecoder struct {
	validator transform.Transformer
	keepCarry bool
	carry     []byte
}

func newTextDecoder(keepCarry bool) *textDecoder {
	return &textDecoder{
		validator: encoding.UTF8Validator,
		keepCarry: keepCarry,
	}
}

// Decode validates chunk (prefixed by any carried bytes) and returns the
// complete text it holds. Invalid input is discarded together with the carry.
func (d *textDecoder) Decode(chunk []byte) (string, error) {
	src := chunk
	if len(d.carry) > 0 {
		src = make([]byte, 0, len(d.carry)+len(chunk))
		src = append(src, d.carry...)
		src = append(src, chunk...)
		d.carry = nil
	}
	if len(src) == 0 {
		return "", nil
	}

	dst := make([]byte, len(src))
	nDst, nSrc, err := d.validator.Transform(dst, src, !d.keepCarry)
	switch {
	case err == nil:
		return string(dst[:nDst]), nil
	case errors.Is(err, transform.ErrShortSrc) && len(src)-nSrc <= maxCarry:
		d.carry = append([]byte(nil), src[nSrc:]...)
		return string(dst[:nDst]), nil
	default:
		return "", &DecodeError{Bytes: len(src), Err: err}
	}
}

// Pending reports how many bytes are carried into the next Decode
func (d *textDecoder) Pending() int {
	return len(d.carry)
}

// Reset drops any carried bytes
func (d *textDecoder) Reset() {
	d.carry = nil
}
