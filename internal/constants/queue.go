package constants

// 队列与任务名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskOrderTimeoutExpire = "order:timeout_expire"
	TaskOrderEventPublish  = "order:event_publish"
)
