package ingest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/config"
)

// Blocklist is process-scoped moderation state: blocked signer addresses and
// source IPs. Reads take a shared lock; the refresh loop swaps both sets
// under the write lock.
type Blocklist struct {
	logger   log.Logger
	url      string
	interval time.Duration

	mu        sync.RWMutex
	addresses map[string]struct{}
	ips       map[string]struct{}
}

func NewBlocklist(cfg config.BlocklistConfig, logger log.Logger) *Blocklist {
	b := &Blocklist{
		logger:   logger.With("module", "blocklist"),
		url:      cfg.URL,
		interval: time.Duration(cfg.RefreshSec) * time.Second,
	}
	b.swap(cfg.Addresses, cfg.IPs)
	return b
}

func (b *Blocklist) swap(addresses, ips []string) {
	addrSet := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		addrSet[strings.ToLower(a)] = struct{}{}
	}
	ipSet := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		ipSet[ip] = struct{}{}
	}
	b.mu.Lock()
	b.addresses = addrSet
	b.ips = ipSet
	b.mu.Unlock()
}

func (b *Blocklist) BlockedAddress(addr string) bool {
	if addr == "" {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.addresses[strings.ToLower(addr)]
	return ok
}

func (b *Blocklist) BlockedIP(ip string) bool {
	if ip == "" {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.ips[ip]
	return ok
}

// Run reloads the lists from the configured URL until the context ends. A
// failed reload keeps the previous snapshot.
func (b *Blocklist) Run(ctx context.Context) {
	if b.url == "" || b.interval <= 0 {
		return
	}
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.refresh(ctx); err != nil {
				b.logger.Error("refresh blocklist fail", "err", err)
			}
		}
	}
}

func (b *Blocklist) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	dat, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	var out struct {
		Addresses []string `json:"addresses"`
		IPs       []string `json:"ips"`
	}
	if err := json.Unmarshal(dat, &out); err != nil {
		return err
	}
	b.swap(out.Addresses, out.IPs)
	return nil
}
