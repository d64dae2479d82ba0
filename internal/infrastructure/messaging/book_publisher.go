// Package messaging 图书事件发布
package messaging

import (
	"context"
	"time"

	"github.com/xiebiao/booklibrary/internal/domain/book"
)

// messagePublisher *mq.Publisher满足此接口
type messagePublisher interface {
	PublishWithContext(ctx context.Context, routingKey string, message interface{}) error
}

// BookEventPublisher 把图书事件发布到Topic Exchange,routing key即事件类型
type BookEventPublisher struct {
	publisher messagePublisher
	timeout   time.Duration
}

// NewBookEventPublisher 创建事件发布者
func NewBookEventPublisher(publisher messagePublisher) *BookEventPublisher {
	return &BookEventPublisher{publisher: publisher, timeout: 3 * time.Second}
}

// Publish 发布事件
// 请求context取消后仍然发布,只受自身超时限制
func (p *BookEventPublisher) Publish(ctx context.Context, event book.Event) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	return p.publisher.PublishWithContext(ctx, string(event.Type), event)
}
