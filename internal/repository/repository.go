package repository

import (
	"context"

	"gorm.io/gorm"
)

// updateByID 按主键做部分更新，记录不存在时返回 gorm.ErrRecordNotFound
func updateByID(ctx context.Context, db *gorm.DB, m any, id string, fields map[string]any) error {
	var cnt int64
	if err := db.WithContext(ctx).Model(m).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return gorm.ErrRecordNotFound
	}
	if len(fields) == 0 {
		return nil
	}
	return db.WithContext(ctx).Model(m).Where("id = ?", id).Updates(fields).Error
}

// deleteByID 按主键删除，返回记录是否存在
func deleteByID(ctx context.Context, db *gorm.DB, m any, id string) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(m)
	return res.RowsAffected > 0, res.Error
}

// orderSubscriptions 订阅关系统一按 (created_at, 对端 id) 排序，与 loader 的批量查询保持一致
func orderSubscriptions(peerColumn string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at, " + peerColumn)
	}
}
