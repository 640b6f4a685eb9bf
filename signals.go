package mallow

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for schema lifecycle events.
var (
	SignalSchemaCreated = capitan.NewSignal("mallow.schema.created", "Schema declared")
	SignalDumpStart     = capitan.NewSignal("mallow.dump.start", "Dump operation beginning")
	SignalDumpComplete  = capitan.NewSignal("mallow.dump.complete", "Dump operation finished")
)

// Keys for typed event data.
var (
	KeySchemaName   = capitan.NewStringKey("schema_name")
	KeyElementCount = capitan.NewIntKey("element_count")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeyError        = capitan.NewErrorKey("error")
)

// emitSchemaCreated emits an event when a schema is declared.
func emitSchemaCreated(ctx context.Context, name string) {
	capitan.Emit(ctx, SignalSchemaCreated,
		KeySchemaName.Field(name),
	)
}

// emitDumpStart emits an event when a dump begins.
func emitDumpStart(ctx context.Context, name string, elements int) {
	capitan.Emit(ctx, SignalDumpStart,
		KeySchemaName.Field(name),
		KeyElementCount.Field(elements),
	)
}

// emitDumpComplete emits an event when a dump finishes.
func emitDumpComplete(ctx context.Context, name string, elements int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySchemaName.Field(name),
		KeyElementCount.Field(elements),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDumpComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDumpComplete, fields...)
	}
}
