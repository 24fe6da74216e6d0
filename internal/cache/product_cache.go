package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"grocery/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const productListTTL = 60 * time.Second

// 商品一覧の読み取りキャッシュ。
// Redis未設定（client=nil）のときは何もしない
type ProductCache struct {
	client *redis.Client
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client}
}

// REDIS_ADDRが空ならnilを返す（キャッシュ無効）
func NewRedisClient(addr string, password string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func (c *ProductCache) GetList(ctx context.Context, key string) ([]model.Product, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, listKey(key)).Result()
	if err != nil {
		//ミスも接続エラーも同じ扱い。DBから読めばいい
		return nil, false
	}

	var products []model.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		return nil, false
	}
	return products, true
}

func (c *ProductCache) SetList(ctx context.Context, key string, products []model.Product) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	//書けなくても無視。キャッシュなので
	c.client.Set(ctx, listKey(key), data, productListTTL)
}

// 在庫やカタログを変えたら一覧キャッシュを全部捨てる
func (c *ProductCache) InvalidateLists(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, listKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}

func listKey(suffix string) string {
	return fmt.Sprintf("products:list:%s", suffix)
}
