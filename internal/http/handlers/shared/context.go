package shared

import "github.com/gin-gonic/gin"

// SessionIDKey 会话中间件写入的上下文键
const SessionIDKey = "session_id"

// SessionID 读取当前请求的会话编号，没有会话时返回空串。
func SessionID(c *gin.Context) string {
	value, ok := c.Get(SessionIDKey)
	if !ok {
		return ""
	}
	if id, ok := value.(string); ok {
		return id
	}
	return ""
}
