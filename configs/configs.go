/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package configs

const (
	Access_Public  = "public"
	Access_Private = "private"
)

const (
	App_Mode_Release = "release"
	App_Mode_Debug   = "debug"
)

// defaults
const (
	DefaultPort        = 8080
	DefaultLRUSize     = 1024
	DefaultConcurrency = 4
	DefaultRate        = 100
	DefaultBurst       = 200
	// DefaultTokenHours is the validity of tokens issued by the token command
	DefaultTokenHours  = 24 * 30
)
