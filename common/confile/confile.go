/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package confile

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"github.com/CESSProject/kvcache/configs"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tailscale/hujson"
)

const (
	DefaultConfig  = "conf.yaml"
	ConfigTemplete = `application:
  # cache workspace, the store lives in workspace/db and logs in workspace/log
  workspace: "/kvcache"
  # run mode  [debug | release]
  mode: "release"
  # HTTP API port
  port: 8080

cache:
  # keep recently used values decoded in memory
  lru: true
  # maximum number of values held by the lru overlay
  lrusize: 1024
  # snappy-compress encoded values
  compression: true
  # block cache size of the store (unit is MiB)
  blockcache: 16
  # open file handles of the store
  handles: 16
  # write buffer of the store (unit is MiB), 0 derives it from blockcache
  writebuffer: 0

access:
  # access mode: [public | private]
  # In private mode, requests need a bearer token signed with secret
  mode: public
  # token signing secret
  secret: ""
  # allowed requests per second
  rate: 100
  # request burst
  burst: 200`
)

type Application struct {
	Workspace string `mapstructure:"workspace" name:"workspace" toml:"workspace" yaml:"workspace"`
	Mode      string `mapstructure:"mode" name:"mode" toml:"mode" yaml:"mode"`
	Port      uint32 `mapstructure:"port" name:"port" toml:"port" yaml:"port"`
}

type Cache struct {
	LRU         bool `mapstructure:"lru" name:"lru" toml:"lru" yaml:"lru"`
	LRUSize     int  `mapstructure:"lrusize" name:"lrusize" toml:"lrusize" yaml:"lrusize"`
	Compression bool `mapstructure:"compression" name:"compression" toml:"compression" yaml:"compression"`
	BlockCache  int  `mapstructure:"blockcache" name:"blockcache" toml:"blockcache" yaml:"blockcache"`
	Handles     int  `mapstructure:"handles" name:"handles" toml:"handles" yaml:"handles"`
	WriteBuffer int  `mapstructure:"writebuffer" name:"writebuffer" toml:"writebuffer" yaml:"writebuffer"`
}

type Access struct {
	Mode   string  `mapstructure:"mode" name:"mode" toml:"mode" yaml:"mode"`
	Secret string  `mapstructure:"secret" name:"secret" toml:"secret" yaml:"secret"`
	Rate   float64 `mapstructure:"rate" name:"rate" toml:"rate" yaml:"rate"`
	Burst  int     `mapstructure:"burst" name:"burst" toml:"burst" yaml:"burst"`
}

type Config struct {
	Application `mapstructure:"application" yaml:"application"`
	Cache       `mapstructure:"cache" yaml:"cache"`
	Access      `mapstructure:"access" yaml:"access"`
}

func NewConfig(config_file string) (*Config, error) {
	var confilePath = config_file
	if confilePath == "" {
		confilePath = DefaultConfig
	}
	fstat, err := os.Stat(confilePath)
	if err != nil {
		return nil, err
	}
	if fstat.IsDir() {
		return nil, errors.Errorf("the '%v' is not a file", confilePath)
	}

	v := viper.New()
	setDefaults(v)
	ext := strings.ToLower(path.Ext(confilePath))
	if ext == ".hujson" {
		data, err := os.ReadFile(confilePath)
		if err != nil {
			return nil, err
		}
		data, err = hujson.Standardize(data)
		if err != nil {
			return nil, errors.Errorf("hujson: %v", err)
		}
		v.SetConfigType("json")
		err = v.ReadConfig(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Errorf("ReadConfig: %v", err)
		}
	} else {
		if ext == "" {
			return nil, errors.Errorf("the '%v' has no extension", confilePath)
		}
		v.SetConfigFile(confilePath)
		v.SetConfigType(ext[1:])
		err = v.ReadInConfig()
		if err != nil {
			return nil, errors.Errorf("ReadInConfig: %v", err)
		}
	}

	var c = &Config{}
	err = v.Unmarshal(c)
	if err != nil {
		return nil, errors.Errorf("configuration file format error: %v", err)
	}
	if err = c.check(); err != nil {
		return nil, err
	}

	err = os.MkdirAll(c.Workspace, 0755)
	if err != nil {
		return nil, errors.Errorf("create workspace: %v", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.mode", configs.App_Mode_Release)
	v.SetDefault("application.port", configs.DefaultPort)
	v.SetDefault("cache.lru", true)
	v.SetDefault("cache.lrusize", configs.DefaultLRUSize)
	v.SetDefault("cache.compression", true)
	v.SetDefault("access.mode", configs.Access_Public)
	v.SetDefault("access.rate", configs.DefaultRate)
	v.SetDefault("access.burst", configs.DefaultBurst)
}

func (c *Config) check() error {
	if c.Workspace == "" {
		return errors.New("workspace cannot be empty")
	}
	if c.Application.Port > 65535 {
		return errors.New("the port number cannot exceed 65535")
	}
	if c.Application.Mode != configs.App_Mode_Release && c.Application.Mode != configs.App_Mode_Debug {
		return errors.New("invalid application mode")
	}
	if c.Access.Mode != configs.Access_Public && c.Access.Mode != configs.Access_Private {
		return errors.New("invalid access mode")
	}
	if c.Access.Mode == configs.Access_Private && c.Access.Secret == "" {
		return errors.New("private access mode requires a secret")
	}
	if c.LRUSize < 0 {
		return errors.New("lrusize cannot be negative")
	}
	if c.Access.Rate <= 0 || c.Access.Burst <= 0 {
		return errors.New("rate and burst must be positive")
	}
	return nil
}

// OverlaySize is the effective overlay capacity, zero when disabled.
func (c *Config) OverlaySize() int {
	if !c.LRU {
		return 0
	}
	return c.LRUSize
}

func FreeLocalPort(port uint32) bool {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), time.Second*3)
	if err != nil {
		return true
	}
	conn.Close()
	return false
}
