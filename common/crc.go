// Copyright 2026 The Openthermal Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, the SMBus packet error code calculation.
package common

// PEC calculates the SMBus packet error code of the byte slice parameter
// and returns the calculated value. This is CRC-8 with polynomial 0x07,
// initial value 0x00, no reflection and no final xor, as used by Melexis
// and other SMBus devices.
func PEC(bytes []byte) byte {
	var crc byte
	for _, val := range bytes {
		crc ^= val
		for i := 0; i < 8; i++ {
			if (crc & 0x80) == 0 {
				crc <<= 1
			} else {
				crc = (byte)((crc << 1) ^ 0x07)
			}
		}
	}
	return crc
}
