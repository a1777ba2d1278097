/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"net/http"

	"github.com/CESSProject/kvcache/common/utils"
	"github.com/CESSProject/kvcache/configs"
	"github.com/gin-gonic/gin"
)

func (n *Node) StatHandle(c *gin.Context) {
	st, err := n.cache.Stats()
	if err != nil {
		n.fail(c, n.Log, err)
		return
	}
	resp := StatResp{
		Entries:    st.Entries,
		SizeBytes:  st.SizeBytes,
		Overlay:    st.Overlay,
		OverlayCap: st.OverlayCap,
		Compressed: st.Compressed,
		Version:    configs.Version,
	}
	if detail, _ := c.GetQuery("detail"); detail == "true" {
		resp.StoreDetail = st.StoreDetail
	}
	if free, err := utils.GetDirFreeSpace(n.Workspace); err == nil {
		resp.DiskFree = free
	}
	if mem, err := utils.GetSysMemAvailable(); err == nil {
		resp.MemAvail = mem
	}
	ReturnJSON(c, http.StatusOK, MSG_OK, resp)
}
