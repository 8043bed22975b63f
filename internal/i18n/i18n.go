package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleTW = "zh-TW"
	LocaleZH = "zh-CN"
	LocaleEN = "en-US"

	// DefaultLocale 未指定语言时使用繁体中文
	DefaultLocale = LocaleTW

	localeHeader = "X-Locale"
	localeQuery  = "lang"
)

// ResolveLocale 依次从 X-Locale、?lang= 与 Accept-Language 解析语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale, ok := normalize(c.GetHeader(localeHeader)); ok {
		return locale
	}
	if locale, ok := normalize(c.Query(localeQuery)); ok {
		return locale
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale, ok := normalize(tag); ok {
			return locale
		}
	}
	return DefaultLocale
}

func normalize(raw string) (string, bool) {
	tag := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case tag == "":
		return "", false
	case tag == "zh-tw" || tag == "zh-hk" || strings.HasPrefix(tag, "zh-hant"):
		return LocaleTW, true
	case strings.HasPrefix(tag, "zh"):
		return LocaleZH, true
	case strings.HasPrefix(tag, "en"):
		return LocaleEN, true
	default:
		return "", false
	}
}

// T 翻译消息，找不到时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译带参数的消息
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
