package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

const VALKEY_SCORE_KEY_PREFIX = "sentiment:score:"

type ValkeyOptions struct {
	Address  string
	Password string
	TLS      bool
}

type ValkeyClient struct {
	Client valkey.Client
	opts   ValkeyOptions
	mu     sync.Mutex
}

func NewValkeyClient(ctx context.Context, opts ValkeyOptions) (*ValkeyClient, error) {
	client, err := connectValkey(ctx, opts)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", opts.Address))

	return &ValkeyClient{Client: client, opts: opts}, nil
}

func connectValkey(ctx context.Context, o ValkeyOptions) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{o.Address},
		Password:         o.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if o.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	return client, nil
}

func (vc *ValkeyClient) recreateClient(ctx context.Context) {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := connectValkey(ctx, vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}

	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) Close() {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.Client.Close()
}

// GetScores looks up cached scores for the given keys. Misses are absent
// from the returned map.
func (vc *ValkeyClient) GetScores(ctx context.Context, keys []string) (map[string]float64, error) {
	found := make(map[string]float64, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	cmds := make([]valkey.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = vc.Client.B().Get().Key(VALKEY_SCORE_KEY_PREFIX + key).Build()
	}

	for i, res := range vc.DoMultiWithRetry(ctx, cmds, 3) {
		raw, err := res.ToString()
		if valkey.IsValkeyNil(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("[ValkeyClient] failed to read score for %s: %w", keys[i], err)
		}

		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			slog.Warn("[ValkeyClient] Ignoring corrupt cached score",
				slog.String("key", keys[i]),
				slog.String("value", raw))
			continue
		}
		found[keys[i]] = score
	}

	return found, nil
}

func (vc *ValkeyClient) SetScores(ctx context.Context, scores map[string]float64, ttl time.Duration) error {
	if len(scores) == 0 {
		return nil
	}

	cmds := make([]valkey.Completed, 0, len(scores))
	for key, score := range scores {
		cmds = append(cmds, vc.Client.B().Set().
			Key(VALKEY_SCORE_KEY_PREFIX+key).
			Value(strconv.FormatFloat(score, 'g', -1, 64)).
			ExSeconds(int64(ttl / time.Second)).
			Build())
	}

	for _, res := range vc.DoMultiWithRetry(ctx, cmds, 3) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("[ValkeyClient] failed to cache scores: %w", err)
		}
	}

	slog.Debug("[ValkeyClient] Cached scores",
		slog.Int("count", len(scores)))
	return nil
}

func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		vc.mu.Lock()
		client := vc.Client
		vc.mu.Unlock()

		// Completed commands are consumed by DoMulti; pin them so a retry
		// can send the same commands again.
		for j := range completed {
			completed[j] = completed[j].Pin()
		}

		results = client.DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			err := r.Error()
			if err == nil || valkey.IsValkeyNil(err) {
				continue
			}
			hasErr = true
			slog.Warn("[ValkeyClient] Do Multi failed",
				slog.Int("attempt", i+1),
				slog.String("error", err.Error()))
			if isConnectionError(err) {
				vc.recreateClient(ctx)
			}
			break
		}
		if !hasErr {
			break
		}
		time.Sleep(time.Millisecond * 250)
	}

	return results
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
