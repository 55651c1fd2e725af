package loader

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/d60-Lab/gin-graphql/internal/dataloader"
)

const tracerName = "github.com/d60-Lab/gin-graphql/internal/loader"

// traced 为每个执行的窗口创建一个 span
func traced[K comparable, V any](name string, fetch dataloader.BatchFunc[K, V]) dataloader.BatchFunc[K, V] {
	return func(ctx context.Context, keys []K) ([]V, []error) {
		ctx, span := otel.Tracer(tracerName).Start(ctx, "loader."+name,
			trace.WithAttributes(
				attribute.String("loader.name", name),
				attribute.Int("loader.batch_size", len(keys)),
			),
		)
		defer span.End()

		values, errs := fetch(ctx, keys)
		if len(values) == 0 && len(errs) == 1 && errs[0] != nil {
			span.RecordError(errs[0])
			span.SetStatus(codes.Error, errs[0].Error())
		} else if n := countErrors(errs); n > 0 {
			span.SetAttributes(attribute.Int("loader.key_errors", n))
			if hasIntegrityError(errs) {
				span.SetStatus(codes.Error, ErrIntegrity.Error())
			}
		}
		return values, errs
	}
}

func countErrors(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}

func hasIntegrityError(errs []error) bool {
	for _, err := range errs {
		if errors.Is(err, ErrIntegrity) {
			return true
		}
	}
	return false
}
