//go:build sonic

package utils

import "github.com/bytedance/sonic"

// for imroc/req clients
var JSONMarshal = sonic.Marshal
var JSONUnmarshal = sonic.Unmarshal
