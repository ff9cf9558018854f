// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/pkg/errors"

	"github.com/thedlop/sigma-go/types/chainhash"
	"github.com/thedlop/sigma-go/types/merkle"
)

const (
	// InterlinksVectorPrefix is the first key byte of extension fields that
	// carry packed interlinks.
	InterlinksVectorPrefix byte = 0x01

	// ExtensionFieldKeySize is the size of an extension field key.
	ExtensionFieldKeySize = 2

	// MaxExtensionFieldValueSize bounds the value of one field.
	MaxExtensionFieldValueSize = 64

	packedLinkSize = 1 + chainhash.HashSize
)

var (
	// ErrBadPackedLink is returned when an interlinks field does not hold a
	// count byte followed by an id.
	ErrBadPackedLink = errors.New("interlinks improperly packed")

	// ErrTooManyLinks is returned when a vector has more distinct entries
	// than a one byte key index can address.
	ErrTooManyLinks = errors.New("too many interlinks to pack")

	// ErrFieldTooLarge is returned for extension field values above
	// MaxExtensionFieldValueSize.
	ErrFieldTooLarge = errors.New("extension field value too large")
)

// ExtensionField is a key-value pair of the block extension section.
type ExtensionField struct {
	Key   [ExtensionFieldKeySize]byte
	Value []byte
}

// LeafData is the Merkle leaf committed to for the field: the key length,
// the key and the value.
func (f ExtensionField) LeafData() []byte {
	b := make([]byte, 0, 1+len(f.Key)+len(f.Value))
	b = append(b, byte(len(f.Key)))
	b = append(b, f.Key[:]...)
	return append(b, f.Value...)
}

// check enforces the size bound of the value.
func (f ExtensionField) check() error {
	if len(f.Value) > MaxExtensionFieldValueSize {
		return errors.Wrapf(ErrFieldTooLarge, "key %x holds %d bytes", f.Key, len(f.Value))
	}
	return nil
}

// Extension is the ordered list of extension fields of a block.
type Extension struct {
	Fields []ExtensionField
}

// NewInterlinksExtension builds the extension carrying only the packed links.
func NewInterlinksExtension(links Interlinks) (*Extension, error) {
	fields, err := PackInterlinks(links)
	if err != nil {
		return nil, err
	}
	return &Extension{Fields: fields}, nil
}

func (e *Extension) tree() *merkle.Tree {
	leaves := make([][]byte, len(e.Fields))
	for i, f := range e.Fields {
		leaves[i] = f.LeafData()
	}
	return merkle.NewTree(leaves...)
}

// RootHash is the commitment stored as the header extension root.
func (e *Extension) RootHash() chainhash.Hash {
	return e.tree().RootHash()
}

// InterlinksProof proves the interlinks fields against RootHash. An
// extension without interlinks yields an empty proof.
func (e *Extension) InterlinksProof() (*merkle.BatchProof, error) {
	var indices []int
	for i, f := range e.Fields {
		if f.Key[0] == InterlinksVectorPrefix {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		return &merkle.BatchProof{}, nil
	}
	return e.tree().BatchProof(indices...)
}

// Interlinks decodes the links carried by the extension.
func (e *Extension) Interlinks() (Interlinks, error) {
	return UnpackInterlinks(e.Fields)
}

// PackInterlinks run-length encodes links into extension fields. Each run of
// equal ids becomes one field keyed by the prefix and the index of the first
// id of the run, valued by the run length and the id.
func PackInterlinks(links Interlinks) ([]ExtensionField, error) {
	var fields []ExtensionField
	for i := 0; i < len(links); {
		if i > 0xff {
			return nil, ErrTooManyLinks
		}

		run := 1
		for i+run < len(links) && links[i+run] == links[i] && run < 0xff {
			run++
		}

		value := make([]byte, 0, packedLinkSize)
		value = append(value, byte(run))
		value = append(value, links[i][:]...)
		fields = append(fields, ExtensionField{
			Key:   [ExtensionFieldKeySize]byte{InterlinksVectorPrefix, byte(i)},
			Value: value,
		})
		i += run
	}
	return fields, nil
}

// UnpackInterlinks expands the interlinks fields found among fields, in the
// order they appear. Fields with other prefixes are skipped, but every field
// must respect MaxExtensionFieldValueSize.
func UnpackInterlinks(fields []ExtensionField) (Interlinks, error) {
	links := Interlinks{}
	for _, f := range fields {
		if err := f.check(); err != nil {
			return nil, chainhash.NewDecodeError("extension", err)
		}
		if f.Key[0] != InterlinksVectorPrefix {
			continue
		}
		if len(f.Value) != packedLinkSize {
			return nil, chainhash.NewDecodeError("extension", ErrBadPackedLink)
		}

		var id BlockID
		copy(id[:], f.Value[1:])
		for n := int(f.Value[0]); n > 0; n-- {
			links = append(links, id)
		}
	}
	return links, nil
}
