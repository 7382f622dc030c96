/*
Package serbuf provides the building blocks shared by the wire codecs in
this module: an append-only output sink, the typed-value construction
protocol that decoders drive and encoders consume, and a reflection
binding that implements the protocol for arbitrary Go values.

The concrete wire formats live in the json and msgpack subpackages. Both
follow the standard Go Marshal/Unmarshal interface on top of the protocol
defined here.
*/
package serbuf
