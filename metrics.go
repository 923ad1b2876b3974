package singleton

import (
	"Inskape/singleton/internal/global"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter(global.Name)
)

var (
	initCounter    metric.Int64Counter
	replaceCounter metric.Int64Counter
	dropCounter    metric.Int64Counter
	fillCounter    metric.Int64Counter
)

func init() {
	var err error
	initCounter, err = meter.Int64Counter("singleton.init", metric.WithDescription("The number of cells initialized"), metric.WithUnit("call"))
	if err != nil {
		panic(err)
	}
	replaceCounter, err = meter.Int64Counter("singleton.replace", metric.WithDescription("The number of values replaced"), metric.WithUnit("call"))
	if err != nil {
		panic(err)
	}
	dropCounter, err = meter.Int64Counter("singleton.drop", metric.WithDescription("The number of values torn down"), metric.WithUnit("call"))
	if err != nil {
		panic(err)
	}
	fillCounter, err = meter.Int64Counter("singleton.fill", metric.WithDescription("The number of lazy values computed"), metric.WithUnit("call"))
	if err != nil {
		panic(err)
	}
}
