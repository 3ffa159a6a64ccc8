package twobit

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

const (
	// ValuesPerUnit is the number of logical values packed into one storage byte.
	ValuesPerUnit = 4

	// MaxValue is the largest value a slot can hold.
	MaxValue = 3
)

var (
	// ErrIndexOutOfRange is matched by every *IndexError.
	ErrIndexOutOfRange = errors.New("twobit: index out of range")

	// ErrShortStorage is matched by every *StorageError.
	ErrShortStorage = errors.New("twobit: storage too short")
)

// IndexError reports a Get or Set outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("twobit: index %d out of range [0:%d]", e.Index, e.Len)
}

// Is reports whether target is ErrIndexOutOfRange.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// StorageError reports a logical index whose unit lies past the end of storage
// adopted through NewFromStorage.
type StorageError struct {
	Index int
	Units int
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("twobit: index %d needs unit %d, storage has %d units",
		e.Index, e.Index/ValuesPerUnit, e.Units)
}

// Is reports whether target is ErrShortStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrShortStorage
}

// Buffer is a fixed-size array of 2-bit values packed 4 per byte.
//
// Within unit k, logical index 4k+s occupies bits 2s and 2s+1: bit 2s holds the
// "value >= 2" flag and bit 2s+1 holds the "value is odd" flag.
//
// A Buffer is not safe for concurrent use. Writers touching slots of the same unit
// must be serialized by the caller.
type Buffer struct {
	count int
	units []byte
}

// StorageLen returns the number of storage units needed for count values.
func StorageLen(count int) int {
	return (count + ValuesPerUnit - 1) / ValuesPerUnit
}

// Clamp constrains v to [0, MaxValue].
func Clamp(v int) int {
	return min(max(v, 0), MaxValue)
}

// New returns a zeroed buffer holding count values.
func New(count int) *Buffer {
	if count < 0 {
		panic("twobit: negative count")
	}
	return &Buffer{
		count: count,
		units: make([]byte, StorageLen(count)),
	}
}

// NewFromStorage returns a buffer of count values that adopts units as its backing
// storage. The slice is neither copied nor checked against StorageLen(count); it must
// come from a compatible encoder such as Storage.
func NewFromStorage(count int, units []byte) *Buffer {
	if count < 0 {
		panic("twobit: negative count")
	}
	return &Buffer{
		count: count,
		units: units,
	}
}

// Len returns the number of logical values.
func (b *Buffer) Len() int {
	return b.count
}

// Set stores Clamp(v) at index i.
func (b *Buffer) Set(i, v int) error {
	unit, shift, err := b.locate(i)
	if err != nil {
		return err
	}
	v = Clamp(v)

	var bits byte
	if v >= 2 {
		bits |= 0x1
	}
	if v%2 != 0 {
		bits |= 0x2
	}
	b.units[unit] = (b.units[unit] &^ (0x3 << shift)) | (bits << shift)
	return nil
}

// Get returns the value at index i.
func (b *Buffer) Get(i int) (int, error) {
	unit, shift, err := b.locate(i)
	if err != nil {
		return 0, err
	}
	bits := b.units[unit] >> shift
	return int(bits&0x1)<<1 | int(bits&0x2)>>1, nil
}

// Values decodes all logical values in index order.
func (b *Buffer) Values() ([]int, error) {
	vs := make([]int, b.count)
	for i := range vs {
		v, err := b.Get(i)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

// Storage returns the backing storage. The slice is shared with the buffer, and
// slots past Len in the last unit carry no meaning.
func (b *Buffer) Storage() []byte {
	return b.units
}

// Dump lists the raw storage units in decimal.
func (b *Buffer) Dump() string {
	var sb strings.Builder
	sb.WriteString("units:")
	for i, u := range b.units {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(int(u)))
	}
	return sb.String()
}

// String returns a short description of the buffer.
func (b *Buffer) String() string {
	return fmt.Sprintf("twobit.Buffer{%d values, %d units}", b.count, len(b.units))
}

// LogValue implements slog.LogValuer.
func (b *Buffer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("values", b.count),
		slog.Int("units", len(b.units)),
		slog.String("storage", fmt.Sprintf("%x", b.units)),
	)
}

// locate returns the unit index and bit shift of index i.
func (b *Buffer) locate(i int) (unit int, shift uint, err error) {
	if i < 0 || i >= b.count {
		return 0, 0, &IndexError{Index: i, Len: b.count}
	}
	unit = i / ValuesPerUnit
	if unit >= len(b.units) {
		return 0, 0, &StorageError{Index: i, Units: len(b.units)}
	}
	shift = uint(2 * (i % ValuesPerUnit))
	return unit, shift, nil
}
