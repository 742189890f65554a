package store

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/park285/checkers-bot-tournament/internal/domain"
	"github.com/redis/go-redis/v9"
)

const ttlRun = 24 * time.Hour

// Progress is the live counter kept next to a run.
type Progress struct {
	Total  int
	Done   int
	Status string
}

const (
	StatusRunning  = "running"
	StatusFinished = "finished"
)

// RedisStore keeps live tournament state with a TTL. Every key of a run lives
// under tourney:<run>.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttlRun}
}

// OpenRedis parses a redis:// URL and pings the server.
func OpenRedis(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(rdb), nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *RedisStore) keyRun(runID string) string       { return "tourney:" + strings.TrimSpace(runID) }
func (s *RedisStore) keyMatches(runID string) string   { return s.keyRun(runID) + ":matches" }
func (s *RedisStore) keyProgress(runID string) string  { return s.keyRun(runID) + ":progress" }
func (s *RedisStore) keyStandings(runID string) string { return s.keyRun(runID) + ":standings" }

func (s *RedisStore) StartRun(ctx context.Context, run *domain.TournamentRun) error {
	if run == nil {
		return nil
	}
	raw, err := json.Marshal(run)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.keyRun(run.ID), raw, s.ttl)
	pipe.Del(ctx, s.keyMatches(run.ID), s.keyStandings(run.ID))
	pipe.HSet(ctx, s.keyProgress(run.ID), "total", run.Games, "done", 0, "status", StatusRunning)
	pipe.Expire(ctx, s.keyProgress(run.ID), s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) RecordMatch(ctx context.Context, rec *domain.MatchRecord) error {
	if rec == nil {
		return nil
	}
	n, err := s.rdb.Exists(ctx, s.keyRun(rec.RunID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownRun
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, s.keyMatches(rec.RunID), raw)
	pipe.Expire(ctx, s.keyMatches(rec.RunID), s.ttl)
	pipe.HIncrBy(ctx, s.keyProgress(rec.RunID), "done", 1)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) RecordStandings(ctx context.Context, runID string, rows []*domain.StandingRecord) error {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			return ErrUnknownRun
		}
		return err
	}
	if len(rows) > 0 {
		run.FinishedAt = rows[0].UpdatedAt
	}
	runRaw, err := json.Marshal(run)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.keyRun(runID), runRaw, s.ttl)
	pipe.Set(ctx, s.keyStandings(runID), raw, s.ttl)
	pipe.HSet(ctx, s.keyProgress(runID), "status", StatusFinished)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) GetRun(ctx context.Context, runID string) (*domain.TournamentRun, error) {
	raw, err := s.rdb.Get(ctx, s.keyRun(runID)).Bytes()
	if err == redis.Nil {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	var run domain.TournamentRun
	if err := json.Unmarshal(raw, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *RedisStore) GetMatches(ctx context.Context, runID string) ([]*domain.MatchRecord, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	items, err := s.rdb.LRange(ctx, s.keyMatches(runID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*domain.MatchRecord, 0, len(items))
	for _, it := range items {
		var m domain.MatchRecord
		if err := json.Unmarshal([]byte(it), &m); err != nil {
			return nil, fmt.Errorf("decode match: %w", err)
		}
		out = append(out, &m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out, nil
}

func (s *RedisStore) GetStandings(ctx context.Context, runID string) ([]*domain.StandingRecord, error) {
	raw, err := s.rdb.Get(ctx, s.keyStandings(runID)).Bytes()
	if err == redis.Nil {
		if _, rerr := s.GetRun(ctx, runID); rerr != nil {
			return nil, rerr
		}
		return []*domain.StandingRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	var out []*domain.StandingRecord
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProgress reads the live counters of a run.
func (s *RedisStore) GetProgress(ctx context.Context, runID string) (*Progress, error) {
	vals, err := s.rdb.HGetAll(ctx, s.keyProgress(runID)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, ErrRunNotFound
	}
	p := &Progress{Status: vals["status"]}
	p.Total, _ = strconv.Atoi(vals["total"])
	p.Done, _ = strconv.Atoi(vals["done"])
	return p, nil
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "6379"
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redis db %q", p)
		}
		db = n
	}
	pass, _ := u.User.Password()
	opts := &redis.Options{Addr: host + ":" + port, Password: pass, DB: db}
	if u.Scheme == "rediss" {
		opts.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	}
	return opts, nil
}
