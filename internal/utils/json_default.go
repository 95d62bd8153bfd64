//go:build !sonic

package utils

import "github.com/goccy/go-json"

// for imroc/req clients
var JSONMarshal = json.Marshal
var JSONUnmarshal = json.Unmarshal
