package ecpay

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

const fieldCheckMacValue = "CheckMacValue"

// .NET UrlEncode 不编码这些字符，绿界按其结果计算检查码
var dotnetURLEncodeReplacer = strings.NewReplacer(
	"%21", "!",
	"%2a", "*",
	"%28", "(",
	"%29", ")",
	"~", "%7e",
)

// GenerateCheckMacValue 计算 SHA256 检查码：
// 参数名按字母序（不分大小写）排列，前后拼接 HashKey/HashIV，URL 编码后转小写再做摘要
func GenerateCheckMacValue(params map[string]string, hashKey, hashIV string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		if key == fieldCheckMacValue {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})

	var b strings.Builder
	b.WriteString("HashKey=")
	b.WriteString(hashKey)
	for _, key := range keys {
		b.WriteByte('&')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(params[key])
	}
	b.WriteString("&HashIV=")
	b.WriteString(hashIV)

	encoded := strings.ToLower(url.QueryEscape(b.String()))
	encoded = dotnetURLEncodeReplacer.Replace(encoded)

	sum := sha256.Sum256([]byte(encoded))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// VerifyCheckMacValue 校验回调检查码
func VerifyCheckMacValue(params map[string]string, hashKey, hashIV string) bool {
	received := strings.ToUpper(strings.TrimSpace(params[fieldCheckMacValue]))
	if received == "" {
		return false
	}
	expected := GenerateCheckMacValue(params, hashKey, hashIV)
	return subtle.ConstantTimeCompare([]byte(received), []byte(expected)) == 1
}

// Sign 使用客户端配置计算检查码
func (c *Client) Sign(params map[string]string) string {
	return GenerateCheckMacValue(params, c.cfg.HashKey, c.cfg.HashIV)
}

// VerifyCallback 校验回调字段
func (c *Client) VerifyCallback(params map[string]string) bool {
	return VerifyCheckMacValue(params, c.cfg.HashKey, c.cfg.HashIV)
}
