// Package parcel is the runtime linked by generated Go proxies and stubs.
//
// A Parcel is a flat little-endian buffer of 4-byte aligned slots plus a
// table of remote objects carried alongside the bytes:
//
//	boolean, char, byte, short, integer  int32 (widened)
//	long                                 int64
//	float, double                        IEEE-754 32/64 bit
//	string                               int32 UTF-16 unit count, units, NUL, padding
//	sequenceable                         int32 presence flag, then its own encoding
//	remote object, interface             int32 index into the object table, -1 for nil
//	array, list                          int32 count, then each element
//	map                                  int32 count, then each key and value
//
// Reads and writes never panic. The first failure is recorded and every later
// operation on the same parcel is a no-op returning a zero value; callers check
// Err once after a group of operations.
package parcel
