// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/thedlop/sigma-go/types/chainhash"
)

const (
	// MaxVLQPayload is the maximum payload size for a VLQ encoded uint64.
	MaxVLQPayload = 10
)

var (
	errVLQOverflow = errors.New("VLQ value overflows uint64")
)

// ReadElement reads the next sequence of bytes from r depending on the
// concrete type of element pointed to. Fixed width integers are big endian.
func ReadElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *uint8:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = b[0]
		return nil

	case *uint32:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = binary.BigEndian.Uint32(b[:])
		return nil

	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err

	case *BlockID:
		_, err := io.ReadFull(r, e[:])
		return err

	case *[33]byte:
		_, err := io.ReadFull(r, e[:])
		return err

	case *[8]byte:
		_, err := io.ReadFull(r, e[:])
		return err

	case *[3]byte:
		_, err := io.ReadFull(r, e[:])
		return err
	}

	return errors.Errorf("ReadElement: unsupported element type %T", element)
}

// ReadElements reads multiple items from r.  It is equivalent to multiple
// calls to ReadElement.
func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := ReadElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteElement writes the big endian representation of element to w.
func WriteElement(w io.Writer, element interface{}) error {
	var err error
	switch e := element.(type) {
	case uint8:
		_, err = w.Write([]byte{e})

	case uint32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], e)
		_, err = w.Write(b[:])

	case chainhash.Hash:
		_, err = w.Write(e[:])

	case BlockID:
		_, err = w.Write(e[:])

	case [33]byte:
		_, err = w.Write(e[:])

	case [8]byte:
		_, err = w.Write(e[:])

	case [3]byte:
		_, err = w.Write(e[:])

	default:
		err = errors.Errorf("WriteElement: unsupported element type %T", element)
	}
	return err
}

// WriteElements writes multiple items to w.  It is equivalent to multiple
// calls to WriteElement.
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := WriteElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadVLQ reads an unsigned variable length quantity: seven bits per byte,
// least significant group first, high bit set on every byte but the last.
func ReadVLQ(r io.Reader) (uint64, error) {
	var (
		rv    uint64
		shift uint
		b     [1]byte
	)
	for i := 0; i < MaxVLQPayload; i++ {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}

		group := uint64(b[0] & 0x7f)
		if shift == 63 && group > 1 {
			return 0, errVLQOverflow
		}
		rv |= group << shift
		if b[0]&0x80 == 0 {
			return rv, nil
		}
		shift += 7
	}

	return 0, errVLQOverflow
}

// WriteVLQ serializes val to w as a variable length quantity.
func WriteVLQ(w io.Writer, val uint64) error {
	var buf [MaxVLQPayload]byte
	n := PutVLQ(buf[:], val)
	_, err := w.Write(buf[:n])
	return err
}

// PutVLQ encodes val into buf, which must be at least VLQSerializeSize(val)
// long, and returns the number of bytes written.
func PutVLQ(buf []byte, val uint64) int {
	i := 0
	for val >= 0x80 {
		buf[i] = byte(val) | 0x80
		val >>= 7
		i++
	}
	buf[i] = byte(val)
	return i + 1
}

// VLQSerializeSize returns the number of bytes it would take to serialize
// val as a variable length quantity.
func VLQSerializeSize(val uint64) int {
	size := 1
	for val >= 0x80 {
		val >>= 7
		size++
	}
	return size
}

// ReadVarBytes reads a byte array prefixed by a one byte length.
func ReadVarBytes(r io.Reader, fieldName string) ([]byte, error) {
	var count uint8
	if err := ReadElement(r, &count); err != nil {
		return nil, errors.Wrapf(err, "%s length", fieldName)
	}

	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, errors.Wrap(err, fieldName)
	}
	return b, nil
}

// WriteVarBytes serializes a byte array prefixed by a one byte length.
func WriteVarBytes(w io.Writer, fieldName string, bytes []byte) error {
	if len(bytes) > 0xff {
		return errors.Errorf("%s is %d bytes long, at most 255 allowed", fieldName, len(bytes))
	}
	if err := WriteElement(w, uint8(len(bytes))); err != nil {
		return err
	}
	_, err := w.Write(bytes)
	return err
}
