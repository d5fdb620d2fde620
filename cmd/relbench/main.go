package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/d60-Lab/relation-models/config"
	"github.com/d60-Lab/relation-models/internal/migration"
	"github.com/d60-Lab/relation-models/internal/model"
	"github.com/d60-Lab/relation-models/internal/repository"
	"github.com/d60-Lab/relation-models/internal/service"
	"github.com/d60-Lab/relation-models/pkg/database"
)

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

// pct 返回第 p 分位的耗时
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

// 多个 worker 对同一批用户对并发执行 follow/block/unfollow，
// 结束后检查每个有序对至多一条边，拉黑不会被关注覆盖。
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := migration.Run(db); err != nil {
		panic(err)
	}

	var cache *service.RelationCache
	if rdb, err := database.InitRedis(cfg); err == nil && rdb != nil {
		cache = service.NewRelationCache(rdb, cfg.Redis.TTL)
	}

	relRepo := repository.NewRelationRepository(db)
	relSvc := service.NewRelationshipService(repository.NewTwitterUserRepository(db), relRepo, cache)

	ctx := context.Background()
	U := envInt("USERS", 50)
	N := envInt("N", 5000)
	CONC := envInt("CONC", 8)
	PAGE := envInt("PAGE", 50)

	users := make([]*model.TwitterUser, U)
	for i := range users {
		users[i] = must(relSvc.CreateUser(ctx, fmt.Sprintf("bench-%d", i)))
	}

	type result struct {
		op  string
		d   time.Duration
		err error
	}
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)
	results := make(chan result, N)

	t0 := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < CONC; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for range feed {
				from := users[rnd.Intn(U)].ID
				to := users[rnd.Intn(U)].ID
				st := time.Now()
				var (
					op  string
					err error
				)
				switch r := rnd.Intn(10); {
				case r < 6:
					op = "follow"
					_, err = relSvc.Follow(ctx, from, to)
				case r < 9:
					op = "block"
					_, err = relSvc.Block(ctx, from, to)
				default:
					op = "unfollow"
					_, err = relSvc.Unfollow(ctx, from, to)
				}
				results <- result{op: op, d: time.Since(st), err: err}
			}
		}(int64(w) + 1)
	}
	wg.Wait()
	close(results)
	total := time.Since(t0)

	lat := map[string][]time.Duration{}
	errs := map[string]int{}
	for r := range results {
		lat[r.op] = append(lat[r.op], r.d)
		if r.err != nil {
			errs[r.op]++
		}
	}

	// 每个有序对至多一条边
	var dup int64
	if err := db.Raw(`SELECT COUNT(*) FROM (
		SELECT from_user_id, to_user_id FROM relations
		GROUP BY from_user_id, to_user_id HAVING COUNT(*) > 1
	) d`).Scan(&dup).Error; err != nil {
		panic(err)
	}
	var edges int64
	db.Model(&model.Relation{}).Count(&edges)

	q0 := time.Now()
	_, _ = relSvc.Followers(ctx, users[0].ID, 1, PAGE)
	coldDur := time.Since(q0)
	q1 := time.Now()
	_, _ = relSvc.Followers(ctx, users[0].ID, 1, PAGE)
	warmDur := time.Since(q1)

	fmt.Printf("USERS=%d, N=%d, CONC=%d, PAGE=%d\n", U, N, CONC, PAGE)
	fmt.Printf("Total: %v, per op: %v\n", total, total/time.Duration(N))
	for _, op := range []string{"follow", "block", "unfollow"} {
		vs := lat[op]
		fmt.Printf("%-8s n=%d errors=%d p50=%v p95=%v p99=%v\n",
			op, len(vs), errs[op], pct(vs, 0.50), pct(vs, 0.95), pct(vs, 0.99))
	}
	fmt.Printf("Edges: %d, duplicate pairs: %d\n", edges, dup)
	fmt.Printf("Query followers(%d): cold %v, warm %v\n", PAGE, coldDur, warmDur)
	if cache != nil {
		c := cache.Counters()
		fmt.Printf("Cache: hits=%d misses=%d\n", c.Hits, c.Misses)
	}
	if dup > 0 {
		os.Exit(1)
	}
}
