package tracing_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/nikolayk812/cartstore/internal/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestInit_None(t *testing.T) {
	shutdown, err := tracing.Init(t.Context(), tracing.Options{Exporter: "none"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(t.Context()))
}

func TestInit_Stdout(t *testing.T) {
	defer otel.SetTracerProvider(noop.NewTracerProvider())

	var buf bytes.Buffer
	shutdown, err := tracing.Init(t.Context(), tracing.Options{
		Service:  "cartctl",
		Version:  "test",
		Exporter: "stdout",
		Out:      &buf,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "store.add")
	span.End()

	require.NoError(t, shutdown(t.Context()))
	assert.Contains(t, buf.String(), `"Name": "store.add"`)
	assert.Contains(t, buf.String(), "cartctl")
}

func TestInit_Unsupported(t *testing.T) {
	_, err := tracing.Init(t.Context(), tracing.Options{Exporter: "zipkin"})
	require.EqualError(t, err, "exporter[zipkin] is not supported")
}
