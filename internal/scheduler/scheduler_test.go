package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/smallbiznis/shopcore/internal/clock"
	"github.com/smallbiznis/shopcore/internal/config"
	searchdomain "github.com/smallbiznis/shopcore/internal/partsearch/domain"
	searchrepo "github.com/smallbiznis/shopcore/internal/partsearch/repository"
	searchservice "github.com/smallbiznis/shopcore/internal/partsearch/service"
	shoprepo "github.com/smallbiznis/shopcore/internal/shop/repository"
	shopservice "github.com/smallbiznis/shopcore/internal/shop/service"
	"github.com/smallbiznis/shopcore/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubSearch struct {
	searchdomain.Service
	backfill func(ctx context.Context, tenantID, shopID snowflake.ID, limit int) (int, error)
}

func (s stubSearch) Backfill(ctx context.Context, tenantID, shopID snowflake.ID, limit int) (int, error) {
	return s.backfill(ctx, tenantID, shopID, limit)
}

func newTestScheduler(t *testing.T, db *gorm.DB, search searchdomain.Service, cfg Config) (*Scheduler, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	s, err := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		Search:     search,
		Clock:      clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		Config:     cfg,
		Registerer: registry,
	})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	return s, registry
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Params{Log: zap.NewNop()}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunJobTimeoutDoesNotReturnErrorAndIncrementsTimeout(t *testing.T) {
	f := testutil.NewFixture(t)
	s, registry := newTestScheduler(t, f.DB, stubSearch{}, Config{})

	err := s.runJob(context.Background(), "timeout_job", 5*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := getCounterValue(t, registry, "shopcore_scheduler_job_timeouts_total", map[string]string{"job": "timeout_job"}); got != 1 {
		t.Fatalf("expected timeout count 1, got %v", got)
	}
	errorLabels := map[string]string{"job": "timeout_job", "reason": reasonDeadlineExceeded}
	if got := getCounterValue(t, registry, "shopcore_scheduler_job_errors_total", errorLabels); got != 1 {
		t.Fatalf("expected error count 1, got %v", got)
	}
}

func TestRunJobWrapsFailures(t *testing.T) {
	f := testutil.NewFixture(t)
	s, registry := newTestScheduler(t, f.DB, stubSearch{}, Config{})
	boom := errors.New("boom")

	err := s.runJob(context.Background(), "failing_job", time.Second, func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if got := getCounterValue(t, registry, "shopcore_scheduler_job_runs_total", map[string]string{"job": "failing_job"}); got != 1 {
		t.Fatalf("expected run count 1, got %v", got)
	}
}

func TestSearchBackfillJobIndexesEveryActiveShop(t *testing.T) {
	f := testutil.NewFixture(t)
	f.SeedPart(t, testutil.PartSeed{PartNumber: "OLD-1", Description: "Starter motor"})

	second := f.SeedShop(t, f.TenantID, "Second Street Repair")
	now := time.Now().UTC()
	if err := f.DB.Exec(
		`INSERT INTO parts (id, tenant_id, shop_id, part_number, description, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Node.Generate(), f.TenantID, second, "OLD-2", "Alternator", true, now, now,
	).Error; err != nil {
		t.Fatalf("seed part: %v", err)
	}
	closed := f.SeedShop(t, f.TenantID, "Closed Shop")
	if err := f.DB.Exec(`UPDATE shops SET is_active = ? WHERE id = ?`, false, closed).Error; err != nil {
		t.Fatalf("close shop: %v", err)
	}

	shops := shopservice.New(shopservice.Params{DB: f.DB, Log: zap.NewNop(), GenID: f.Node, Repo: shoprepo.Provide()})
	search := searchservice.New(searchservice.Params{
		DB:       f.DB,
		Log:      zap.NewNop(),
		Repo:     searchrepo.Provide(),
		Shops:    shops,
		Defaults: config.NewStaticShopDefaults(config.DefaultShopDefaults()),
	})
	s, registry := newTestScheduler(t, f.DB, search, Config{BatchSize: 1})

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}

	var terms int64
	if err := f.DB.Raw(`SELECT COUNT(DISTINCT part_id) FROM part_search_terms`).Scan(&terms).Error; err != nil {
		t.Fatalf("count terms: %v", err)
	}
	if terms != 2 {
		t.Fatalf("expected 2 indexed parts, got %d", terms)
	}
	if got := getCounterValue(t, registry, "shopcore_scheduler_parts_backfilled_total", map[string]string{}); got != 2 {
		t.Fatalf("expected backfilled count 2, got %v", got)
	}
}

func TestSearchBackfillJobContinuesAfterShopFailure(t *testing.T) {
	f := testutil.NewFixture(t)
	second := f.SeedShop(t, f.TenantID, "Second Street Repair")

	var visited []snowflake.ID
	search := stubSearch{backfill: func(_ context.Context, _, shopID snowflake.ID, _ int) (int, error) {
		visited = append(visited, shopID)
		if shopID == f.ShopID {
			return 0, errors.New("index unavailable")
		}
		return 3, nil
	}}
	s, _ := newTestScheduler(t, f.DB, search, Config{})

	err := s.SearchBackfillJob(context.Background())
	if err == nil {
		t.Fatalf("expected shop failure to be reported")
	}
	if len(visited) != 2 || visited[1] != second {
		t.Fatalf("expected both shops visited, got %v", visited)
	}
}

func TestDisabledJobIsSkipped(t *testing.T) {
	f := testutil.NewFixture(t)
	called := false
	search := stubSearch{backfill: func(context.Context, snowflake.ID, snowflake.ID, int) (int, error) {
		called = true
		return 0, nil
	}}
	s, _ := newTestScheduler(t, f.DB, search, Config{EnabledJobs: []string{"something_else"}})

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if called {
		t.Fatalf("expected %s to be skipped", JobSearchBackfill)
	}
}

func TestProvideConfigFromEnvironmentConfig(t *testing.T) {
	cfg := ProvideConfig(config.Config{Scheduler: config.SchedulerConfig{
		Enabled:         true,
		IntervalSeconds: 30,
		Jobs:            []string{JobSearchBackfill},
	}}).withDefaults()

	if !cfg.Enabled || cfg.RunInterval != 30*time.Second {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.BatchSize != DefaultConfig().BatchSize {
		t.Fatalf("expected default batch size, got %d", cfg.BatchSize)
	}
}

func getCounterValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metricFamilies {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.Metric {
			if !labelsMatch(metric, labels) {
				continue
			}
			if metric.Counter == nil {
				t.Fatalf("metric %s is not a counter", name)
			}
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func labelsMatch(metric *dto.Metric, labels map[string]string) bool {
	if len(metric.Label) != len(labels) {
		return false
	}
	for _, label := range metric.Label {
		if labels[label.GetName()] != label.GetValue() {
			return false
		}
	}
	return true
}
