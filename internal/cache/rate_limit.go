package cache

import (
	"context"
	"fmt"
	"time"
)

const loginAttemptKeyFmt = "login:attempt:%s"

// LoginRateLimitResult 登录限流判定结果
type LoginRateLimitResult struct {
	Allowed    bool
	Attempts   int64
	RetryAfter time.Duration
}

// CheckLoginRateLimit 按标识（IP 或 IP+邮箱）做滑窗计数限流。
// Redis 未启用时直接放行；超限后在 block 窗口内持续拒绝。
func CheckLoginRateLimit(ctx context.Context, identifier string, maxAttempts, windowSeconds, blockSeconds int) (*LoginRateLimitResult, error) {
	if !Enabled() || maxAttempts <= 0 || windowSeconds <= 0 {
		return &LoginRateLimitResult{Allowed: true}, nil
	}

	key := buildKey(fmt.Sprintf(loginAttemptKeyFmt, identifier))
	attempts, err := Client().Incr(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if attempts == 1 {
		if err := Client().Expire(ctx, key, time.Duration(windowSeconds)*time.Second).Err(); err != nil {
			return nil, err
		}
	}

	if attempts > int64(maxAttempts) {
		block := time.Duration(blockSeconds) * time.Second
		if blockSeconds > 0 {
			if err := Client().Expire(ctx, key, block).Err(); err != nil {
				return nil, err
			}
		}
		ttl, err := Client().TTL(ctx, key).Result()
		if err != nil {
			ttl = block
		}
		return &LoginRateLimitResult{Allowed: false, Attempts: attempts, RetryAfter: ttl}, nil
	}
	return &LoginRateLimitResult{Allowed: true, Attempts: attempts}, nil
}

// ResetLoginRateLimit 登录成功后清除计数
func ResetLoginRateLimit(ctx context.Context, identifier string) {
	if !Enabled() {
		return
	}
	_ = Del(ctx, fmt.Sprintf(loginAttemptKeyFmt, identifier))
}
