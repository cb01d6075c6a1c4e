// Package ir provides the JSON value model shared by every formatconform
// package.
//
// This package contains value types and their serialization only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Numbers never pass through float64: integers are big.Int backed and
//     decimals are exact apd decimals keeping the digits of the literal
//   - null is a value (IRNull), never a Go nil inside containers
//   - Canonical JSON (sorted keys, NFC strings) is the only serialization
//     used for hashing, storage and golden snapshots
package ir
