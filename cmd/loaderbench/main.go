package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-graphql/config"
	"github.com/d60-Lab/gin-graphql/internal/graph"
	"github.com/d60-Lab/gin-graphql/internal/loader"
	"github.com/d60-Lab/gin-graphql/internal/model"
	"github.com/d60-Lab/gin-graphql/internal/repository"
	"github.com/d60-Lab/gin-graphql/internal/service"
	"github.com/d60-Lab/gin-graphql/pkg/database"
)

const nestedQuery = `{
  users {
    id
    profile { memberType { id } }
    posts { id }
    userSubscribedTo { id subscribedToUser { id } }
    subscribedToUser { id userSubscribedTo { id } }
  }
}`

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer database.Close(db)

	N := envInt("N", 1000)
	FOLLOWS := envInt("FOLLOWS", 5)
	RUNS := envInt("RUNS", 20)
	CONC := envInt("CONC", 1)

	seed(db, N, FOLLOWS)

	var statements atomic.Int64
	if err := db.Callback().Query().After("gorm:query").Register("loaderbench:count", func(*gorm.DB) {
		statements.Add(1)
	}); err != nil {
		panic(err)
	}

	repos := repository.New(db)
	schema := must(graph.NewSchema(repos, service.New(repos)))
	src := loader.Sources{
		Users:         repos.Users,
		Profiles:      repos.Profiles,
		Posts:         repos.Posts,
		MemberTypes:   repos.MemberTypes,
		Subscriptions: repos.Subscriptions,
	}

	fmt.Printf("N=%d, FOLLOWS=%d, RUNS=%d, CONC=%d\n", N, FOLLOWS, RUNS, CONC)
	for _, fuse := range []bool{true, false} {
		reg := loader.NewRegistry(src,
			loader.WithFusion(fuse),
			loader.WithMaxBatch(cfg.Loader.MaxBatch),
			loader.WithWait(cfg.Loader.Wait),
		)

		statements.Store(0)
		lat := run(schema, reg, RUNS, CONC)
		perReq := float64(statements.Load()) / float64(RUNS)

		fmt.Printf("fuse=%-5v statements/request=%.1f p50=%v p95=%v p99=%v\n",
			fuse, perReq, pct(lat, 0.50), pct(lat, 0.95), pct(lat, 0.99))
	}
}

// run 用 CONC 个 worker 执行嵌套查询 RUNS 次，每个请求一组 loader
func run(schema graphql.Schema, reg *loader.Registry, runs, conc int) []time.Duration {
	feed := make(chan struct{}, runs)
	for i := 0; i < runs; i++ {
		feed <- struct{}{}
	}
	close(feed)

	var mu sync.Mutex
	lat := make([]time.Duration, 0, runs)
	var wg sync.WaitGroup
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range feed {
				ctx := loader.NewContext(context.Background(), reg.New())
				st := time.Now()
				res, _ := graph.Execute(ctx, schema, graph.Request{Query: nestedQuery})
				d := time.Since(st)
				if res.HasErrors() {
					fmt.Fprintf(os.Stderr, "query failed: %v\n", res.Errors)
				}
				mu.Lock()
				lat = append(lat, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return lat
}

// seed 创建 n 个用户，每人一份资料、两篇帖子和 follows 个订阅
func seed(db *gorm.DB, n, follows int) {
	const batch = 500
	users := make([]model.User, n)
	for i := range users {
		users[i] = model.User{ID: uuid.New().String(), Name: fmt.Sprintf("user-%d", i), Balance: float64(i)}
	}
	must(0, db.CreateInBatches(&users, batch).Error)

	profiles := make([]model.Profile, 0, n)
	posts := make([]model.Post, 0, 2*n)
	subs := make([]model.Subscription, 0, n*follows)
	for i, u := range users {
		mt := model.MemberTypeBasic
		if i%3 == 0 {
			mt = model.MemberTypeBusiness
		}
		profiles = append(profiles, model.Profile{ID: uuid.New().String(), UserID: u.ID, YearOfBirth: 1970 + i%40, MemberTypeID: mt})
		for j := 0; j < 2; j++ {
			posts = append(posts, model.Post{ID: uuid.New().String(), Title: fmt.Sprintf("%s-%d", u.Name, j), Content: "bench", AuthorID: u.ID})
		}
		for j := 1; j <= follows && j < n; j++ {
			subs = append(subs, model.Subscription{SubscriberID: u.ID, AuthorID: users[(i+j)%n].ID})
		}
	}
	must(0, db.CreateInBatches(&profiles, batch).Error)
	must(0, db.CreateInBatches(&posts, batch).Error)
	must(0, db.CreateInBatches(&subs, batch).Error)
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}
