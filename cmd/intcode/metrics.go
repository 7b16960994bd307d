package main

import (
	"fmt"

	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"
)

// dumpMetrics prints every counter and gauge collected during the command
// when --metrics is set.
func (a *app) dumpMetrics(c *cobra.Command) error {
	show, err := c.Flags().GetBool(metricsKey)
	if err != nil || !show {
		return err
	}
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	w := c.ErrOrStderr()
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(w, "%-40s %g\n", mf.GetName(), metricValue(mf.GetType(), m))
		}
	}
	return nil
}

func metricValue(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_UNTYPED:
		return m.GetUntyped().GetValue()
	default:
		return 0
	}
}
