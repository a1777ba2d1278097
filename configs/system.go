/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package configs

// system
const (
	// Name is the name of the program
	Name = "kvcache"
	// version
	Version = Name + " " + "v0.1.0"
	// description
	Description = "Persistent key-value cache with an in-memory LRU overlay"
)
