package rangetree

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// CompareFn returns a negative number when a < b, zero when a == b and a
// positive number when a > b.
type CompareFn[T any] func(a, b T) int

// RangeValuePair is an immutable closed range [From, To]. Ordering of the
// endpoints is enforced by the RangeTree, not by the pair.
type RangeValuePair[T comparable] struct {
	from T
	to   T
}

func NewRangeValuePair[T comparable](from, to T) RangeValuePair[T] {
	return RangeValuePair[T]{
		from: from,
		to:   to,
	}
}

// From returns the lower bound of r.
func (r RangeValuePair[T]) From() T { return r.from }

// To returns the upper bound of r.
func (r RangeValuePair[T]) To() T { return r.to }

func (r RangeValuePair[T]) String() string {
	return fmt.Sprintf("[%v - %v]", r.from, r.to)
}

func (r RangeValuePair[T]) Equal(other RangeValuePair[T]) bool {
	return r.from == other.from && r.to == other.to
}

// Hash combines the hashes of both endpoints; swapping From and To yields a
// different hash unless they are equal.
func (r RangeValuePair[T]) Hash() uint64 {
	h := uint64(25)
	h = h*43 + hashValue(r.from)
	h = h*43 + hashValue(r.to)
	return h
}

func hashValue[T comparable](v T) uint64 {
	d := xxhash.New()
	writeCanonical(d, reflect.ValueOf(&v).Elem())
	return d.Sum64()
}

// writeCanonical writes v so that values equal under == produce the same
// bytes. Pointers, channels and the like are written by address.
func writeCanonical(d *xxhash.Digest, v reflect.Value) {
	var buf [8]byte
	putUint := func(u uint64) {
		binary.LittleEndian.PutUint64(buf[:], u)
		_, _ = d.Write(buf[:])
	}
	putFloat := func(f float64) {
		if f == 0 {
			// -0 == +0
			f = 0
		}
		putUint(math.Float64bits(f))
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			putUint(1)
		} else {
			putUint(0)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		putUint(uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		putUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		putFloat(v.Float())
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		putFloat(real(c))
		putFloat(imag(c))
	case reflect.String:
		putUint(uint64(v.Len()))
		_, _ = d.WriteString(v.String())
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan:
		putUint(uint64(v.Pointer()))
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			writeCanonical(d, v.Index(i))
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			writeCanonical(d, v.Field(i))
		}
	case reflect.Interface:
		if v.IsNil() {
			putUint(0)
			return
		}
		e := v.Elem()
		_, _ = d.WriteString(e.Type().String())
		writeCanonical(d, e)
	}
}

// IsValid reports whether From does not compare greater than To.
func (r RangeValuePair[T]) IsValid(cmp CompareFn[T]) bool {
	return cmp(r.from, r.to) <= 0
}

// Contains reports whether v lies within r, endpoints included.
func (r RangeValuePair[T]) Contains(v T, cmp CompareFn[T]) bool {
	return cmp(r.from, v) <= 0 && cmp(v, r.to) <= 0
}

// EntirelyBefore reports whether r ends before v.
func (r RangeValuePair[T]) EntirelyBefore(v T, cmp CompareFn[T]) bool {
	return cmp(r.to, v) < 0
}

// EntirelyAfter reports whether r starts after v.
func (r RangeValuePair[T]) EntirelyAfter(v T, cmp CompareFn[T]) bool {
	return cmp(r.from, v) > 0
}

// comparePairs orders ranges by From, then by To.
func comparePairs[T comparable](cmp CompareFn[T]) func(a, b RangeValuePair[T]) int {
	return func(a, b RangeValuePair[T]) int {
		if c := cmp(a.from, b.from); c != 0 {
			return c
		}
		return cmp(a.to, b.to)
	}
}
