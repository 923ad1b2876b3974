// Package affinity pins a value to the goroutine that first touches it.
package affinity

import (
	"Inskape/singleton/core/exception"
	"Inskape/singleton/internal/global"
	"Inskape/singleton/internal/goid"
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

var (
	meter = otel.Meter(global.Name + ":core:affinity")
)

var (
	claimCounter     metric.Int64Counter
	violationCounter metric.Int64Counter
)

func init() {
	var err error
	claimCounter, err = meter.Int64Counter("affinity.claim", metric.WithDescription("The number of guards claimed by a goroutine"), metric.WithUnit("call"))
	if err != nil {
		panic(err)
	}
	violationCounter, err = meter.Int64Counter("affinity.violation", metric.WithDescription("The number of accesses from a goroutine other than the owner"), metric.WithUnit("call"))
	if err != nil {
		panic(err)
	}
}

// A Guard records the goroutine that first calls Check and rejects every
// later Check from any other goroutine.
//
// It is a diagnostic, not a lock. Built with the singleton_release tag,
// Check does nothing.
//
// The zero value is an unclaimed Guard. A Guard must not be copied after
// first use.
type Guard struct {
	owner atomic.Int64
	id    atomic.Pointer[uuid.UUID]
}

// Check claims g for the calling goroutine if it is unclaimed, and panics
// with exception.ErrCrossGoroutineAccess if another goroutine owns it.
// name identifies the guarded value in the panic and in logs.
func (g *Guard) Check(name string) {
	if !global.Debug {
		return
	}

	current := goid.Get()
	if g.owner.CompareAndSwap(0, current) {
		claimCounter.Add(context.Background(), 1)
		if ce := global.Logger().Check(zap.DebugLevel, "owner recorded"); ce != nil {
			ce.Write(
				zap.String("cell", name),
				zap.Stringer("id", g.ID()),
				zap.Int64("goroutine", current),
			)
		}
		return
	}

	if owner := g.owner.Load(); owner != current {
		violationCounter.Add(context.Background(), 1)
		exception.Raise(
			exception.ErrCrossGoroutineAccess().WithDetailf("%s was first used in goroutine %d, but accessed in goroutine %d", name, owner, current),
			zap.String("cell", name),
			zap.Stringer("id", g.ID()),
			zap.Int64("owner", owner),
			zap.Int64("goroutine", current),
		)
	}
}

// Owner returns the owning goroutine's ID, and whether the guard has been
// claimed.
func (g *Guard) Owner() (int64, bool) {
	owner := g.owner.Load()
	return owner, owner != 0
}

// ID returns an identifier for the guarded value, minted on first call.
func (g *Guard) ID() uuid.UUID {
	if id := g.id.Load(); id != nil {
		return *id
	}
	id := uuid.New()
	if !g.id.CompareAndSwap(nil, &id) {
		return *g.id.Load()
	}
	return id
}
