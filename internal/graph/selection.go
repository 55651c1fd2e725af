package graph

import (
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/d60-Lab/gin-graphql/internal/loader"
)

// includeFor 把当前字段的子选择映射为根查询 users 可以提前取出的关联
func includeFor(info graphql.ResolveInfo) loader.Include {
	var inc loader.Include
	for name := range selectedFields(info) {
		switch name {
		case "userSubscribedTo":
			inc |= loader.IncludeSubscriptions
		case "subscribedToUser":
			inc |= loader.IncludeSubscribers
		}
	}
	return inc
}

// selectedFields 返回当前字段下直接选择的字段名，会展开 fragment
func selectedFields(info graphql.ResolveInfo) map[string]struct{} {
	out := map[string]struct{}{}
	visited := map[string]bool{}
	var walk func(set *ast.SelectionSet)
	walk = func(set *ast.SelectionSet) {
		if set == nil {
			return
		}
		for _, sel := range set.Selections {
			switch s := sel.(type) {
			case *ast.Field:
				out[s.Name.Value] = struct{}{}
			case *ast.InlineFragment:
				walk(s.SelectionSet)
			case *ast.FragmentSpread:
				name := s.Name.Value
				if visited[name] {
					continue
				}
				visited[name] = true
				if def, ok := info.Fragments[name].(*ast.FragmentDefinition); ok {
					walk(def.SelectionSet)
				}
			}
		}
	}
	for _, f := range info.FieldASTs {
		walk(f.SelectionSet)
	}
	return out
}
