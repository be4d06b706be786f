/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package webhook

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/acronis/go-linebot/internal/log"
)

func TestMetricsCollector(t *testing.T) {
	logger := log.NewDisabledLogger()
	collector := NewMetricsCollector("test")
	deliverer := &fakeDeliverer{}
	dispatcher := NewDispatcherWithOpts(deliverer, DispatcherOpts{MetricsCollector: collector})

	require.NoError(t, dispatcher.Dispatch(context.Background(), logger, textEvent("hello")))
	require.Equal(t, float64(1), testutil.ToFloat64(collector.EventsTotal.WithLabelValues("message")))
	require.Equal(t, float64(1), testutil.ToFloat64(collector.RepliesSentTotal))
	require.Equal(t, float64(0), testutil.ToFloat64(collector.DispatchErrorsTotal.WithLabelValues("message")))

	badEvent := textEvent("hello")
	badEvent.ReplyToken = "bad"
	require.Error(t, dispatcher.Dispatch(context.Background(), logger, badEvent))
	require.Equal(t, float64(2), testutil.ToFloat64(collector.EventsTotal.WithLabelValues("message")))
	require.Equal(t, float64(1), testutil.ToFloat64(collector.DispatchErrorsTotal.WithLabelValues("message")))
	require.Equal(t, float64(1), testutil.ToFloat64(collector.RepliesSentTotal))
}
