package store

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/OCAP2/location-marker/internal/store"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
