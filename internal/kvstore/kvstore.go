// Package kvstore keeps quiz score history in Redis: one JSON list per user,
// newest first, plus a leaderboard of each user's best percentage.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/codequiz/internal/quiz"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "codequiz"

// Options configure the Redis connection.
type Options struct {
	Addr        string
	Username    string
	Password    string
	DB          int
	Prefix      string
	DialTimeout time.Duration
}

// ScoreRepo stores score records in Redis. It implements quiz.ScoreRepo.
type ScoreRepo struct {
	client *redis.Client
	prefix string
}

var _ quiz.ScoreRepo = (*ScoreRepo)(nil)

// Dial connects to Redis and verifies the connection with PING.
func Dial(ctx context.Context, opts Options) (*ScoreRepo, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Username:    opts.Username,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
	}
	return New(client, opts.Prefix), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *ScoreRepo {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &ScoreRepo{client: client, prefix: prefix}
}

// Close closes the underlying client.
func (r *ScoreRepo) Close() error {
	return r.client.Close()
}

func (r *ScoreRepo) scoresKey(userID string) string {
	return r.prefix + ":scores:" + userID
}

func (r *ScoreRepo) leaderboardKey() string {
	return r.prefix + ":leaderboard"
}

// Save prepends rec to the user's history and raises their leaderboard
// entry if this is a new best.
func (r *ScoreRepo) Save(ctx context.Context, userID string, rec quiz.ScoreRecord) error {
	if userID == "" {
		return errors.New("save score: empty user id")
	}
	rec.UserID = userID
	rec.CompletedAt = rec.CompletedAt.UTC()
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}

	best, err := r.client.ZScore(ctx, r.leaderboardKey(), userID).Result()
	newBest := errors.Is(err, redis.Nil) || (err == nil && float64(rec.Percentage) > best)
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("read best score: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, r.scoresKey(userID), data)
		if newBest {
			p.ZAdd(ctx, r.leaderboardKey(), redis.Z{Score: float64(rec.Percentage), Member: userID})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

// ListByUser returns the user's records, most recent first. A record saved
// twice by a retried call is returned once.
func (r *ScoreRepo) ListByUser(ctx context.Context, userID string) ([]quiz.ScoreRecord, error) {
	items, err := r.client.LRange(ctx, r.scoresKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}

	seen := make(map[string]bool, len(items))
	out := make([]quiz.ScoreRecord, 0, len(items))
	for _, item := range items {
		var rec quiz.ScoreRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode score: %w", err)
		}
		if seen[rec.SessionID] {
			continue
		}
		seen[rec.SessionID] = true
		rec.UserID = userID
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}

// LeaderboardEntry is a user's best percentage and rank.
type LeaderboardEntry struct {
	Username   string `json:"username"`
	Percentage int    `json:"percentage"`
	Rank       int    `json:"rank"`
}

// Top returns the best limit users by their best percentage.
func (r *ScoreRepo) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	// ZREVRANGE returns highest to lowest.
	results, err := r.client.ZRevRangeWithScores(ctx, r.leaderboardKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			Username:   z.Member.(string),
			Percentage: int(z.Score),
			Rank:       i + 1,
		}
	}
	return entries, nil
}

// Rename moves a user's history and leaderboard entry to a new name.
func (r *ScoreRepo) Rename(ctx context.Context, from, to string) error {
	n, err := r.client.Exists(ctx, r.scoresKey(from)).Result()
	if err != nil {
		return fmt.Errorf("rename scores: %w", err)
	}
	best, zerr := r.client.ZScore(ctx, r.leaderboardKey(), from).Result()
	if zerr != nil && !errors.Is(zerr, redis.Nil) {
		return fmt.Errorf("rename scores: %w", zerr)
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if n > 0 {
			p.Rename(ctx, r.scoresKey(from), r.scoresKey(to))
		}
		if zerr == nil {
			p.ZRem(ctx, r.leaderboardKey(), from)
			p.ZAdd(ctx, r.leaderboardKey(), redis.Z{Score: best, Member: to})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rename scores: %w", err)
	}
	return nil
}

// DeleteUser removes a user's history and leaderboard entry.
func (r *ScoreRepo) DeleteUser(ctx context.Context, userID string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.scoresKey(userID))
		p.ZRem(ctx, r.leaderboardKey(), userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete scores: %w", err)
	}
	return nil
}
