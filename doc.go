// Package twobit provides a fixed-size array of 2-bit unsigned values (0-3) packed
// four to a byte.
//
// # Storage Layout
//
// Logical index i lives in storage unit i/4 at slot i%4. Slot s occupies bits 2s and
// 2s+1 of its unit: bit 2s is set when the value is 2 or 3, bit 2s+1 is set when the
// value is odd.
//
//	Values: 3  0  1  2 | 3
//	Unit 0: 0b0110_0011 (0x63)
//	Unit 1: 0b0000_0011 (0x03)
//
// The number of logical values is not part of the storage; a decoder must learn it
// out-of-band before calling NewFromStorage.
//
// # Basic Usage
//
//	buf := twobit.New(6)
//	if err := buf.Set(4, 3); err != nil {
//		return err
//	}
//	v, err := buf.Get(4) // 3, nil
//
// Values outside 0-3 are clamped on Set. Indexes outside [0, Len) are reported as
// *IndexError, which matches ErrIndexOutOfRange:
//
//	if _, err := buf.Get(6); errors.Is(err, twobit.ErrIndexOutOfRange) {
//		// no such index
//	}
//
// # Transport
//
// Storage exposes the packed bytes for transport, and NewFromStorage adopts bytes
// received from a peer:
//
//	units := buf.Storage()
//	// ... send units and buf.Len() ...
//	remote := twobit.NewFromStorage(6, units)
//
// The image2bit subpackage renders a Buffer as a 4-level grayscale image, and the
// spilink subpackage ships a Buffer's storage over SPI using periph.io.
package twobit
