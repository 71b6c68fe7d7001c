// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package binout

import (
	"encoding/binary"
	"math"
)

// numeric is the fixed set of element types a variable can hold
// (spec.md §3); Read is generic over exactly these.
type numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Read resolves path to a leaf and materializes its payload as a []T,
// decoding each little-endian element along the way (spec.md §4.5).
//
// Grounded on the teacher's internal/hfs/accumreader.go (seek into one
// owning reader, grow a destination buffer to the requested size) and
// internal/hfs/multireaderat.go's seek-and-copy ReadAt idiom, generalized
// to a single typed element decode instead of a byte-for-byte copy.
//
// On any failure Read returns (nil, false) and records the reason,
// retrievable from ReadError. ReadError is cleared at the start of every
// call, even a successful one.
func Read[T numeric](a *Archive, path string) ([]T, bool) {
	a.setReadError(nil)

	leaf, ok := a.tree.getLeaf(path)
	if !ok {
		a.setReadError(newReadError("no such variable: " + path))
		return nil, false
	}

	want := typeIDFor[T]()
	if leaf.Type != want {
		a.setReadError(typeMismatchError(leaf.Type, want))
		return nil, false
	}

	elemSz, ok := elemSize(leaf.Type)
	if !ok {
		a.setReadError(newReadError("variable " + path + " has an unrecognized element type"))
		return nil, false
	}
	if leaf.Size%int64(elemSz) != 0 {
		a.setReadError(newReadError("variable " + path + " has a size not a multiple of its element width"))
		return nil, false
	}
	n := int(leaf.Size / int64(elemSz))

	if leaf.FileIndex < 0 || leaf.FileIndex >= len(a.shards) {
		a.setReadError(newReadError("variable " + path + " references a shard that is no longer open"))
		return nil, false
	}

	buf := make([]byte, leaf.Size)
	if len(buf) > 0 {
		if _, err := a.shards[leaf.FileIndex].ReadAt(buf, leaf.FilePos); err != nil {
			a.setReadError(err)
			return nil, false
		}
	}

	out := make([]T, n)
	for i := range out {
		out[i] = decodeElem[T](buf[i*elemSz : (i+1)*elemSz])
	}
	return out, true
}

// typeIDFor maps a Go element type to its on-disk TypeID.
func typeIDFor[T numeric]() TypeID {
	var zero T
	switch any(zero).(type) {
	case int8:
		return TypeInt8
	case int16:
		return TypeInt16
	case int32:
		return TypeInt32
	case int64:
		return TypeInt64
	case uint8:
		return TypeUint8
	case uint16:
		return TypeUint16
	case uint32:
		return TypeUint32
	case uint64:
		return TypeUint64
	case float32:
		return TypeFloat32
	case float64:
		return TypeFloat64
	default:
		return TypeInvalid
	}
}

// decodeElem decodes one little-endian element of width len(b) into T.
func decodeElem[T numeric](b []byte) T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return any(int8(b[0])).(T)
	case int16:
		return any(int16(binary.LittleEndian.Uint16(b))).(T)
	case int32:
		return any(int32(binary.LittleEndian.Uint32(b))).(T)
	case int64:
		return any(int64(binary.LittleEndian.Uint64(b))).(T)
	case uint8:
		return any(b[0]).(T)
	case uint16:
		return any(binary.LittleEndian.Uint16(b)).(T)
	case uint32:
		return any(binary.LittleEndian.Uint32(b)).(T)
	case uint64:
		return any(binary.LittleEndian.Uint64(b)).(T)
	case float32:
		return any(math.Float32frombits(binary.LittleEndian.Uint32(b))).(T)
	case float64:
		return any(math.Float64frombits(binary.LittleEndian.Uint64(b))).(T)
	default:
		return zero
	}
}
