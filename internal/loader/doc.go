// Package loader 提供 GraphQL resolver 使用的请求级实体 loader。
//
// 每种关联形态对应一个 dataloader.Loader，内部是一次仓储批量查询，加上把返回的
// 行重新对齐到请求 key 的规则。Registry 为每个请求创建一组新的 Loaders，
// 缓存的实体不会活得比加载它的请求更久。
package loader
