package mysql

import (
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/booklibrary/internal/domain/book"
	"github.com/xiebiao/booklibrary/pkg/metrics"
)

// record 记录存储指标,查询不到属于正常结果
func record(operation string, err error) {
	if errors.Is(err, book.ErrBookNotFound) {
		err = nil
	}
	metrics.RecordStoreOperation(operation, err)
}

// isNotFound 判断是否为记录不存在
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
