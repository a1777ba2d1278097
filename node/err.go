/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

const (
	MSG_OK = "ok"

	ERR_SystemErr  = "system error"
	ERR_ServerBusy = "Server busy"

	ERR_Authorization = "InvalidHead.Authorization"
	ERR_InvalidToken  = "InvalidHead.Token"
	ERR_NoPermission  = "No permission"

	ERR_InvalidKey     = "invalid key"
	ERR_InvalidBody    = "invalid body"
	ERR_BodyTooLarge   = "body too large"
	ERR_InvalidQuery   = "invalid query"
	ERR_NotFound       = "not found"
	ERR_CorruptValue   = "stored value is corrupt"
	ERR_StoreUnavail   = "store unavailable"
	ERR_RouteNotExists = "route does not exist"
)
