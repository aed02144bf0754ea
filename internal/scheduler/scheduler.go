package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/shopcore/internal/clock"
	searchdomain "github.com/smallbiznis/shopcore/internal/partsearch/domain"
	"github.com/smallbiznis/shopcore/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const JobSearchBackfill = "search_backfill"

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Search     searchdomain.Service
	Clock      clock.Clock
	Guard      *ratelimit.Guard      `optional:"true"`
	Config     Config                `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Scheduler runs periodic maintenance jobs across every active shop.
type Scheduler struct {
	db      *gorm.DB
	log     *zap.Logger
	cfg     Config
	clock   clock.Clock
	search  searchdomain.Service
	guard   *ratelimit.Guard
	metrics *jobMetrics
}

type shopRef struct {
	ID       snowflake.ID
	TenantID snowflake.ID
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Search == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	m, err := newJobMetrics(p.Registerer)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		db:      p.DB,
		log:     p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:     p.Config.withDefaults(),
		clock:   p.Clock,
		search:  p.Search,
		guard:   p.Guard,
		metrics: m,
	}, nil
}

// runJob bounds fn by timeout and records its outcome. Deadlines and lost
// locks are logged and swallowed so the next tick retries.
func (s *Scheduler) runJob(parent context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	log := s.log.With(zap.String("job", name))
	s.metrics.runs.WithLabelValues(name).Inc()

	err := s.guard.WithLock(ctx, ratelimit.LockKey("scheduler", "all", name), func() error {
		return fn(ctx)
	})
	s.metrics.duration.WithLabelValues(name).Observe(s.clock.Now().Sub(start).Seconds())
	if err == nil {
		return nil
	}

	if errors.Is(err, ratelimit.ErrLocked) {
		s.metrics.errors.WithLabelValues(name, reasonLocked).Inc()
		log.Debug("job skipped, held by another instance")
		return nil
	}

	reason := errorReason(err)
	s.metrics.errors.WithLabelValues(name, reason).Inc()
	if reason != reasonError {
		s.metrics.timeouts.WithLabelValues(name).Inc()
		log.Warn("job timed out", zap.Duration("timeout", timeout), zap.Error(err))
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	jobs := []struct {
		Name string
		Run  func(context.Context) error
	}{
		{JobSearchBackfill, s.SearchBackfillJob},
	}

	var err error
	for _, job := range jobs {
		if !s.isJobEnabled(job.Name) {
			continue
		}
		err = errors.Join(err, s.runJob(parent, job.Name, s.cfg.JobTimeout, job.Run))
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(strings.TrimSpace(enabled), jobName) {
			return true
		}
	}
	return false
}

// SearchBackfillJob writes search terms for catalog rows that predate the
// index, one batch per shop per run. A failing shop does not stop the rest.
func (s *Scheduler) SearchBackfillJob(ctx context.Context) error {
	var (
		afterID snowflake.ID
		total   int
		errs    error
	)
	for {
		shops, err := s.activeShops(ctx, afterID, s.cfg.BatchSize)
		if err != nil {
			return errors.Join(errs, err)
		}
		for _, shop := range shops {
			if err := ctx.Err(); err != nil {
				return errors.Join(errs, err)
			}
			n, err := s.search.Backfill(ctx, shop.TenantID, shop.ID, s.cfg.BatchSize)
			if err != nil {
				s.log.Warn("search backfill failed",
					zap.String("shop_id", shop.ID.String()),
					zap.Error(err),
				)
				errs = errors.Join(errs, fmt.Errorf("shop %s: %w", shop.ID, err))
				continue
			}
			if n > 0 {
				s.log.Info("search terms backfilled",
					zap.String("shop_id", shop.ID.String()),
					zap.Int("parts", n),
				)
			}
			total += n
		}
		if len(shops) < s.cfg.BatchSize {
			break
		}
		afterID = shops[len(shops)-1].ID
	}

	s.metrics.indexed.Add(float64(total))
	return errs
}

func (s *Scheduler) activeShops(ctx context.Context, afterID snowflake.ID, limit int) ([]shopRef, error) {
	var rows []shopRef
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, tenant_id
		 FROM shops
		 WHERE is_active = ? AND id > ?
		 ORDER BY id ASC
		 LIMIT ?`,
		true,
		afterID,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
