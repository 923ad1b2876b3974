package atomic

import (
	"Inskape/singleton/internal/global"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter(global.Name + ":core:atomic:refcell")
)

var (
	borrowCounter    metric.Int64Counter
	borrowMutCounter metric.Int64Counter
	conflictCounter  metric.Int64Counter
)

func init() {
	var err error
	borrowCounter, err = meter.Int64Counter("refcell.borrow", metric.WithDescription("The number of shared borrows taken"), metric.WithUnit("call"))
	if err != nil {
		panic(err)
	}
	borrowMutCounter, err = meter.Int64Counter("refcell.borrow_mut", metric.WithDescription("The number of exclusive borrows taken"), metric.WithUnit("call"))
	if err != nil {
		panic(err)
	}
	conflictCounter, err = meter.Int64Counter("refcell.conflict", metric.WithDescription("The number of borrows rejected because of an outstanding borrow"), metric.WithUnit("call"))
	if err != nil {
		panic(err)
	}
}
