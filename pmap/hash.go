package pmap

import (
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

var digestPool = &sync.Pool{
	New: func() any {
		return xxhash.New()
	},
}

// Hash returns a 64-bit hash of k consistent with ==: keys that compare
// equal hash equally.
//
// Integers, floats, bools and strings (including named types built on them)
// are hashed directly. Any other comparable key is written field by field
// with a msgpack encoder into the digest. Pointers and channels hash by
// address, since == compares addresses.
func Hash[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case nil:
		return 0
	case string:
		return xxhash.Sum64String(v)
	case int:
		return mix64(uint64(v))
	case int64:
		return mix64(uint64(v))
	case uint64:
		return mix64(v)
	case uint32:
		return mix64(uint64(v))
	case int32:
		return mix64(uint64(v))
	case bool:
		if v {
			return mix64(1)
		}
		return mix64(0)
	case float64:
		return hashFloat(v)
	}
	return hashReflect(reflect.ValueOf(any(k)))
}

func hashReflect(rv reflect.Value) uint64 {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return mix64(uint64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return mix64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return hashFloat(rv.Float())
	case reflect.Bool:
		if rv.Bool() {
			return mix64(1)
		}
		return mix64(0)
	case reflect.String:
		return xxhash.Sum64String(rv.String())
	}
	return hashEncoded(rv)
}

func hashEncoded(rv reflect.Value) uint64 {
	d := digestPool.Get().(*xxhash.Digest)
	d.Reset()
	enc := msgpack.GetEncoder()
	enc.Reset(d)
	err := encodeKey(enc, rv)
	msgpack.PutEncoder(enc)
	if err != nil {
		digestPool.Put(d)
		panic(fmt.Errorf("pmap: cannot hash key of type %v: %w", rv.Type(), err))
	}
	h := d.Sum64()
	digestPool.Put(d)
	return h
}

// encodeKey writes rv so that values equal under == produce equal bytes.
func encodeKey(enc *msgpack.Encoder, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return enc.EncodeInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return enc.EncodeUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return enc.EncodeFloat64(canonicalFloat(rv.Float()))
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		if err := enc.EncodeFloat64(canonicalFloat(real(c))); err != nil {
			return err
		}
		return enc.EncodeFloat64(canonicalFloat(imag(c)))
	case reflect.Bool:
		return enc.EncodeBool(rv.Bool())
	case reflect.String:
		return enc.EncodeString(rv.String())
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return enc.EncodeUint(uint64(rv.Pointer()))
	case reflect.Array:
		if err := enc.EncodeArrayLen(rv.Len()); err != nil {
			return err
		}
		for i := range rv.Len() {
			if err := encodeKey(enc, rv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Struct:
		if err := enc.EncodeArrayLen(rv.NumField()); err != nil {
			return err
		}
		for i := range rv.NumField() {
			if err := encodeKey(enc, rv.Field(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Interface:
		if rv.IsNil() {
			return enc.EncodeNil()
		}
		elem := rv.Elem()
		if err := enc.EncodeString(elem.Type().String()); err != nil {
			return err
		}
		return encodeKey(enc, elem)
	}
	return fmt.Errorf("%v is not comparable", rv.Kind())
}

func canonicalFloat(f float64) float64 {
	if f == 0 {
		return 0 // +0 == -0
	}
	return f
}

func hashFloat(f float64) uint64 {
	if f == 0 {
		return mix64(0) // +0 == -0
	}
	return mix64(math.Float64bits(f))
}

// mix64 is the splitmix64 finalizer; it spreads sequential integers across
// the trie's top-level branches.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
