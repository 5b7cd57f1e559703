// Package wire defines the untyped nested values exchanged at the persistence
// boundary and the codecs that read and write them.
//
// A wire value is one of:
//
//	nil            the null marker
//	bool
//	int64          integral numbers
//	float64        non-integral numbers
//	string
//	[]any          ordered sequences
//	*Map           string-keyed mappings that remember insertion order
//
// The JSON and YAML decoders keep mapping order, which matters for records
// (fields are dumped in declaration order) and for data whose meaning depends
// on iteration order, such as tilemap layers.
package wire
