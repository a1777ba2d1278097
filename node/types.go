/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import "encoding/json"

// HTTP HEADER
const (
	HTTPHeader_Authorization   = "Authorization"
	HTTPHeader_X_Forwarded_For = "X-Forwarded-For"
	HTTPHeader_RequestID       = "X-Request-Id"
)

const (
	HTTP_ParameterKey       = "key"
	HTTP_QueryInt           = "int"
	HTTP_QueryNamespace     = "ns"
	HTTP_QueryReverse       = "reverse"
	HTTP_QueryConcurrency   = "concurrency"
	HTTP_ContextSubject     = "subject"
	HTTP_ContextRequestID   = "request_id"
	HTTP_NamespaceSeparator = "/"
)

// MaxBodySize bounds request bodies.
const MaxBodySize = 32 << 20

type KeysReq struct {
	Keys []json.RawMessage `json:"keys"`
}

type StatResp struct {
	Entries     int    `json:"entries"`
	SizeBytes   int64  `json:"size_bytes"`
	Overlay     int    `json:"overlay"`
	OverlayCap  int    `json:"overlay_cap"`
	Compressed  bool   `json:"compressed"`
	DiskFree    uint64 `json:"disk_free"`
	MemAvail    uint64 `json:"mem_available"`
	Version     string `json:"version"`
	StoreDetail string `json:"store_detail,omitempty"`
}
