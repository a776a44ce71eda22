// Package mmap provides read-only memory-mapped file access.
//
// Layer embedding files are read whole and decoded once, so a mapping lets
// the decoder walk the file without an intermediate copy.
//
//	m, err := mmap.Open("layer_3.npy")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// On Unix the file is mapped with mmap(2). Other platforms fall back to
// reading the file into memory behind the same API.
package mmap
