package porter

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for porter events.
var (
	SignalPlanBuilt         = capitan.NewSignal("porter.plan.built", "Field plan built for a DTO type")
	SignalKeyCollision      = capitan.NewSignal("porter.key.collision", "Two fields resolve to the same output key")
	SignalNormalizeStart    = capitan.NewSignal("porter.normalize.start", "DTO normalization beginning")
	SignalNormalizeComplete = capitan.NewSignal("porter.normalize.complete", "DTO normalization finished")
	SignalSerializeComplete = capitan.NewSignal("porter.serialize.complete", "Serialize operation finished")
)

// Keys for typed event data.
var (
	KeyTypeName   = capitan.NewStringKey("type_name")
	KeyFormat     = capitan.NewStringKey("format")
	KeyOutputKey  = capitan.NewStringKey("output_key")
	KeyField      = capitan.NewStringKey("field")
	KeyFieldCount = capitan.NewIntKey("field_count")
	KeySize       = capitan.NewIntKey("size")
	KeyDuration   = capitan.NewDurationKey("duration")
	KeyError      = capitan.NewErrorKey("error")
)

func emitPlanBuilt(ctx context.Context, typeName string, fields int, err error) {
	data := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fields),
	}
	if err != nil {
		capitan.Error(ctx, SignalPlanBuilt, append(data, KeyError.Field(err))...)
		return
	}
	capitan.Emit(ctx, SignalPlanBuilt, data...)
}

func emitKeyCollision(ctx context.Context, typeName, key, field string) {
	capitan.Emit(ctx, SignalKeyCollision,
		KeyTypeName.Field(typeName),
		KeyOutputKey.Field(key),
		KeyField.Field(field),
	)
}

func emitNormalizeStart(ctx context.Context, format, typeName string) {
	capitan.Emit(ctx, SignalNormalizeStart,
		KeyFormat.Field(format),
		KeyTypeName.Field(typeName),
	)
}

func emitNormalizeComplete(ctx context.Context, format, typeName string, duration time.Duration, fields int, err error) {
	data := []capitan.Field{
		KeyFormat.Field(format),
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyFieldCount.Field(fields),
	}
	if err != nil {
		capitan.Error(ctx, SignalNormalizeComplete, append(data, KeyError.Field(err))...)
		return
	}
	capitan.Emit(ctx, SignalNormalizeComplete, data...)
}

func emitSerializeComplete(ctx context.Context, format, typeName string, size int, duration time.Duration, err error) {
	data := []capitan.Field{
		KeyFormat.Field(format),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		capitan.Error(ctx, SignalSerializeComplete, append(data, KeyError.Field(err))...)
		return
	}
	capitan.Emit(ctx, SignalSerializeComplete, data...)
}
