// Package image2bit provides a 4-level grayscale image backed by a twobit.Buffer.
//
// Pixels are stored row-major, one 2-bit value per pixel, four pixels per byte, using
// the twobit storage layout. The packed bytes can be shipped as-is and adopted again
// on the other side with NewPackedFromStorage.
//
// Memory layout example for a 4-pixel row:
//
//	Pixels: 0  1  2  3
//	Values: 3  0  1  2
//	Byte:   0x63
//
// This package provides:
//
// - Gray2: A color type representing 2-bit grayscale (0-3)
// - Gray2Model: A color model for converting standard Go colors to Gray2
// - Packed: A draw.Image implementation over twobit.Buffer
//
// Example usage:
//
//	// Create a 16x4 image
//	img := image2bit.NewPacked(image.Rect(0, 0, 16, 4))
//
//	// Set a pixel to gray level 2
//	img.SetGray2(10, 2, image2bit.Gray2{Y: 2})
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(image2bit.Gray2{Y: 3}), image.Point{}, draw.Src)
//
//	// Ship the packed bytes
//	units := img.Pix()
package image2bit
