package telemetry

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Provider はトレースとログのOTLP送信をまとめて持つ
type Provider struct {
	name      string
	logs      *sdklog.LoggerProvider
	shutdowns []func(context.Context) error
}

// Setup はOTLP/gRPCへのトレースとログの送信を初期化します。
// endpointが空なら何も送らないProviderを返します。
// 返されたProviderのShutdownは未送信のデータを流すので呼び出し側でdeferしてください。
func Setup(ctx context.Context, endpoint, serviceName string) (*Provider, error) {
	p := &Provider{name: serviceName}
	if endpoint == "" {
		return p, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return p, err
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(endpoint))
	if err != nil {
		return p, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	p.shutdowns = append(p.shutdowns, tp.Shutdown)

	logExporter, err := otlploggrpc.New(ctx, otlploggrpc.WithEndpointURL(endpoint))
	if err != nil {
		return p, errors.Join(err, tp.Shutdown(ctx))
	}
	p.logs = sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	p.shutdowns = append(p.shutdowns, p.logs.Shutdown)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return p, nil
}

// Enabled は送信先が設定されているか
func (p *Provider) Enabled() bool {
	return p.logs != nil
}

// Handler はbaseに加えてOTLPへもログを送るslog.Handlerを返す。送信しない場合はbaseをそのまま返す。
func (p *Provider) Handler(base slog.Handler) slog.Handler {
	if p.logs == nil {
		return base
	}
	return slog.NewMultiHandler(base, otelslog.NewHandler(p.name, otelslog.WithLoggerProvider(p.logs)))
}

// Shutdown はバッファ済みのspanとログを送信して終了する
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range p.shutdowns {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}
