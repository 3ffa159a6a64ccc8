// Package spilink ships the packed storage of a twobit.Buffer to a peer over SPI.
//
// Like a display controller, the link uses a Data/Command GPIO pin: command bytes
// are sent with DC low, storage bytes with DC high. The logical value count is not
// part of the storage, so the link announces it to the peer during initialization.
//
// See the examples for how to use this package.
package spilink

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/flavioheleno/twobit"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// MaxCount is the largest number of logical values a link can carry: unit
// addresses are 16 bits wide.
const MaxCount = twobit.ValuesPerUnit * 0x10000

// Command bytes of the link protocol.
const (
	cmdCount  = 0xB0 // Announce logical count, followed by 4 bytes big endian
	cmdWindow = 0x15 // Unit window, followed by start and end, 2 bytes big endian each
	cmdWrite  = 0x5C // Following data phase carries the window's units
	cmdHalt   = 0xAE // Peer stops accepting writes
)

var errHalted = errors.New("spilink: halted")

// Opts is the configuration for a link.
type Opts struct {
	// Number of logical 2-bit values carried by the link (default: 0)
	Count int

	// Optional peer reset pin
	RST gpio.PinIO // Reset pin (optional, nil if not used)
}

// Dev is the handle of an SPI link.
type Dev struct {
	// Communication
	c   conn.Conn   // SPI connection
	dc  gpio.PinOut // Data/Command pin
	rst gpio.PinIO  // Reset pin (optional)

	count int
	last  []byte // Storage as last seen by the peer

	halted bool
}

// NewSPI creates a new link over SPI and initializes the peer.
//
// The SPI port is configured for 10MHz, Mode0 (CPOL=0, CPHA=0), 8-bit transfers.
// The dc (Data/Command) GPIO pin must be provided and configured as an output.
//
// opts can be nil to use defaults (empty link).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	if opts.Count < 0 || opts.Count > MaxCount {
		return nil, fmt.Errorf("spilink: count must be between 0 and %d", MaxCount)
	}
	if dc == nil {
		return nil, errors.New("spilink: dc pin is required")
	}

	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("spilink: %w", err)
	}

	d := &Dev{
		c:     c,
		dc:    dc,
		rst:   opts.RST,
		count: opts.Count,
		last:  make([]byte, twobit.StorageLen(opts.Count)),
	}

	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init resets the peer, announces the count and zeroes the peer's storage.
func (d *Dev) init() error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("spilink: failed to pull RST low: %w", err)
		}
		time.Sleep(10 * time.Millisecond)

		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("spilink: failed to pull RST high: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	n := uint32(d.count)
	if err := d.sendCommands([]byte{cmdCount, byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}); err != nil {
		return err
	}

	if len(d.last) == 0 {
		return nil
	}
	return d.writeWindow(0, len(d.last)-1, d.last)
}

// sendCommands sends a slice of command bytes.
func (d *Dev) sendCommands(cmds []byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	return d.c.Tx(cmds, nil)
}

// sendData sends a slice of storage bytes.
func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	return d.c.Tx(data, nil)
}

// writeWindow writes units to the inclusive unit window [start, end] of the peer.
func (d *Dev) writeWindow(start, end int, units []byte) error {
	commands := []byte{
		cmdWindow, byte(start >> 8), byte(start), byte(end >> 8), byte(end),
		cmdWrite,
	}
	if err := d.sendCommands(commands); err != nil {
		return err
	}
	return d.sendData(units)
}

// Count returns the number of logical values carried by the link.
func (d *Dev) Count() int {
	return d.count
}

// Write sends a full frame of packed storage.
// The data must be exactly twobit.StorageLen(Count()) bytes.
func (d *Dev) Write(units []byte) (int, error) {
	if d.halted {
		return 0, errHalted
	}
	if len(units) != len(d.last) {
		return 0, errors.New("spilink: invalid storage size")
	}
	if len(units) == 0 {
		return 0, nil
	}
	if err := d.writeWindow(0, len(units)-1, units); err != nil {
		return 0, err
	}
	copy(d.last, units)
	return len(units), nil
}

// Send transfers the storage of b, limited to the smallest window of units that
// changed since the last transfer. Nothing is sent when b is unchanged.
func (d *Dev) Send(b *twobit.Buffer) error {
	if d.halted {
		return errHalted
	}
	if b.Len() != d.count {
		return fmt.Errorf("spilink: buffer holds %d values, link carries %d", b.Len(), d.count)
	}
	units := b.Storage()
	if len(units) != len(d.last) {
		return fmt.Errorf("spilink: buffer has %d units, want %d", len(units), len(d.last))
	}

	start, end := d.calculateDiff(units)
	if start > end {
		return nil
	}
	if err := d.writeWindow(start, end, units[start:end+1]); err != nil {
		return err
	}
	copy(d.last[start:end+1], units[start:end+1])
	return nil
}

// calculateDiff returns the inclusive window of units that differ from the last
// transfer, or (1, 0) if nothing changed.
func (d *Dev) calculateDiff(units []byte) (start, end int) {
	if bytes.Equal(d.last, units) {
		return 1, 0
	}
	start, end = 0, len(units)-1
	for start < end && d.last[start] == units[start] {
		start++
	}
	for end > start && d.last[end] == units[end] {
		end--
	}
	return start, end
}

// Halt tells the peer to stop accepting writes.
// After calling Halt, every transfer fails until a new link is created.
func (d *Dev) Halt() error {
	d.halted = true
	return d.sendCommands([]byte{cmdHalt})
}

// String returns a string representation of the link.
func (d *Dev) String() string {
	return fmt.Sprintf("spilink.Dev{%d values, %d units}", d.count, len(d.last))
}
