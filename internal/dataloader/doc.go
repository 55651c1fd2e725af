// Package dataloader 把相互独立的按 key 查询合并成批量查询。
//
// Loader 同一时刻只有一个打开的窗口。窗口打开期间登记的 key 会去重，
// 窗口关闭时一次性交给 BatchFunc。窗口在以下任一情况最先发生时关闭：
//
//   - 调用方强制求值该窗口的某个 Thunk（按需关闭；GraphQL resolver 返回
//     thunk，由引擎在同层字段全部执行后再求值）
//   - 配置的 wait 到期（供 goroutine 中的调用方使用）
//   - 窗口内的 key 数达到 max batch；满的窗口被摘下，下一个 key 打开新窗口
//
// 结果按 key 缓存到 Loader 生命周期结束。Loader 只服务单个请求，没有过期机制。
package dataloader
