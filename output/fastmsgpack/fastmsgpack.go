// Package fastmsgpack offers a subset of msgpack serialization operated on fixed length []byte with no heap allocation
// and no IO abstraction.
//
// Every Encode function writes at "start" and returns the end position. Bounds are NOT checked; callers must reserve
// space by the matching SizeOf function first.
package fastmsgpack
