// Package testutil 各包测试共用的辅助函数
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/gin-graphql/pkg/database"
)

var dbSeq atomic.Int64

// NewDB 打开 tb 独占、已完成迁移的内存 sqlite 数据库
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// QueryCounter 统计经 db 发出的 SELECT 语句数
type QueryCounter struct {
	n atomic.Int64
}

// CountQueries 注册 gorm 回调统计 db 上的每次查询
func CountQueries(tb testing.TB, db *gorm.DB) *QueryCounter {
	tb.Helper()
	qc := &QueryCounter{}
	name := fmt.Sprintf("testutil:count_%d", dbSeq.Add(1))
	if err := db.Callback().Query().After("gorm:query").Register(name, func(*gorm.DB) { qc.n.Add(1) }); err != nil {
		tb.Fatalf("register callback: %v", err)
	}
	return qc
}

// Count 返回目前为止的查询数
func (q *QueryCounter) Count() int64 { return q.n.Load() }

// Reset 清零计数
func (q *QueryCounter) Reset() { q.n.Store(0) }
