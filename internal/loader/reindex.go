package loader

// indexOne 按 keyOf 把 rows 对齐到 keys，没有对应行的 key 得到零值
func indexOne[K comparable, V any](keys []K, rows []V, keyOf func(V) K) []V {
	byKey := make(map[K]V, len(rows))
	for _, r := range rows {
		byKey[keyOf(r)] = r
	}
	out := make([]V, len(keys))
	for i, k := range keys {
		out[i] = byKey[k]
	}
	return out
}

// groupMany 按 keyOf 把 rows 分组到 keys 下，组内保持行的原有顺序；
// 没有对应行的 key 得到非 nil 的空切片
func groupMany[K comparable, R any, V any](keys []K, rows []R, keyOf func(R) K, value func(R) V) [][]V {
	groups := make(map[K][]V, len(keys))
	for _, r := range rows {
		k := keyOf(r)
		groups[k] = append(groups[k], value(r))
	}
	out := make([][]V, len(keys))
	for i, k := range keys {
		if g, ok := groups[k]; ok {
			out[i] = g
		} else {
			out[i] = []V{}
		}
	}
	return out
}

func identity[V any](v V) V { return v }
