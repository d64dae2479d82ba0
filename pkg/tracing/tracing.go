// Package tracing 基于OpenTelemetry的链路追踪
//
// 使用方式：
//
//	shutdown, err := tracing.InitTracer("booklibrary", "localhost:4317", true)
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.StartSpan(ctx, "booklibrary", "BookService.GetBookByISBN")
//	defer span.End()
//
// 未调用InitTracer时otel使用全局的no-op Provider，StartSpan依然可以安全调用。
package tracing

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"
)

// ShutdownFunc 刷新并关闭TracerProvider
type ShutdownFunc func(context.Context) error

// InitTracer 初始化OTLP gRPC导出器并设置全局TracerProvider
// endpoint格式为host:port（如localhost:4317），不带协议前缀
func InitTracer(serviceName, endpoint string, insecure bool) (ShutdownFunc, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		// 使用系统证书池校验Collector证书
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}

	// 导出器是惰性连接的，Collector不可用不会阻塞启动
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	return Install(serviceName, exporter)
}

// Install 用指定的导出器构建TracerProvider并设为全局
// 测试中可以传入tracetest.InMemoryExporter
func Install(serviceName string, exporter sdktrace.SpanExporter) (ShutdownFunc, error) {
	if exporter == nil {
		return nil, fmt.Errorf("span exporter不能为空")
	}
	res := resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}

// StartSpan 从全局Provider创建Span
// ctx里有父Span时新Span自动成为子Span
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName)
}

// StartServerSpan 从请求头提取上游的trace上下文(traceparent),再创建Server类型的Span
// 没有上游上下文时新Span作为根Span
func StartServerSpan(ctx context.Context, header http.Header, tracerName, spanName string) (context.Context, trace.Span) {
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(header))
	return otel.Tracer(tracerName).Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindServer))
}

// EndSpan 按错误设置Span状态后结束Span
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ExtractTraceID 从context提取TraceID（无有效Span时返回空串）
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// ExtractSpanID 从context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
