// Package frame reshapes mapped desktop-duplication surfaces into images.
//
// A captured surface arrives as packed BGRA rows separated by an
// adapter-chosen pitch, possibly rotated by the adapter. Processor reads only
// the band of rows that can contain the requested region, converts color,
// undoes the rotation, strips pitch padding and crops, copying pixels once
// into the returned Image.
package frame
