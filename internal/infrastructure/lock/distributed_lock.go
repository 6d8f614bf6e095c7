package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ============================================================================
// 分布式锁实现
// ============================================================================
//
// 【为什么需要按账户加锁？】
//
// 场景：玩家A同时发起两局下注（比如前端连点或网络抖动导致重复提交）
//
// 如果没有锁：
//   goroutine1: 查询余额=100 -> 下注100 -> 余额=0   OK
//   goroutine2: 查询余额=100 -> 下注100 -> 余额=-100 超扣了！
//
// 加了锁：
//   goroutine1: 获取锁 -> 查询余额=100 -> 下注100 -> 余额=0 -> 释放锁
//   goroutine2: 获取锁失败，等待... -> 获取锁 -> 查询余额=0 -> 余额不足，拒绝
//
// 每日奖励同理：两个并发的领取请求都通过"是否已领取"的检查后，
// 会导致同一个 24 小时窗口发出两份奖励。持锁后二次检查可以杜绝这种情况。
//
// 【Redis 分布式锁原理】
//
// 加锁：SET key value NX EX timeout
//   - NX: 只有 key 不存在时才设置（保证互斥）
//   - EX: 设置过期时间（防止死锁）
//   - value: 锁持有者标识（释放时验证，防止误删别人的锁）
//
// 释放锁：使用 Lua 脚本保证原子性
//   - 先检查 value 是否是自己的
//   - 再删除 key
//
// ============================================================================

var (
	ErrLockFailed  = errors.New("获取分布式锁失败")
	ErrLockExpired = errors.New("锁已过期")
)

// DistributedLock 分布式锁
type DistributedLock struct {
	client     *redis.Client
	key        string        // 锁的 key
	value      string        // 锁的 value（用于验证锁的持有者）
	expiration time.Duration // 锁的过期时间
}

// NewDistributedLock 创建分布式锁
func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock 尝试获取锁（非阻塞）
//
// 【关键点】使用 SetNX 命令，只有当 key 不存在时才能设置成功
// 这保证了同一时刻只有一个客户端能获取到锁
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

// Lock 阻塞式获取锁（带重试）
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		success, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if success {
			return nil
		}
		// 等待一段时间后重试
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
			// 继续重试
		}
	}
	return ErrLockFailed
}

// Unlock 释放锁
//
// 【关键点】使用 Lua 脚本保证"检查+删除"操作的原子性
//
// 为什么要检查 value？
//
//	场景：A 获取锁 -> A 处理超时，锁自动过期 -> B 获取锁 -> A 执行完毕，调用 Unlock
//	如果不检查 value，A 会把 B 的锁删掉！
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// ============================================================================
// 便捷函数：按账户维度的下注锁 / 每日奖励锁
// ============================================================================

// NewWagerLock 创建下注锁（按玩家维度）
//
// 【设计思考】按玩家加锁而不是全局锁：
// 不同玩家的下注可以完全并发，同一玩家的所有资金变更串行 —— 这正是我们想要的
func NewWagerLock(client *redis.Client, userID int64, roundNo string) *DistributedLock {
	key := fmt.Sprintf("wager:lock:user:%d", userID)
	// value 使用局号，便于追踪是哪一局持有锁
	return NewDistributedLock(client, key, roundNo, 30*time.Second)
}

// NewDailyRewardLock 创建每日奖励锁（按玩家维度）
//
// 与下注锁共用同一个 key：下注与领奖都是对同一账户余额的变更，
// 必须落在同一个互斥范围内
func NewDailyRewardLock(client *redis.Client, userID int64, claimNo string) *DistributedLock {
	key := fmt.Sprintf("wager:lock:user:%d", userID)
	return NewDistributedLock(client, key, claimNo, 30*time.Second)
}
