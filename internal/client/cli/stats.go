package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mindeducation/internal/client/notify"
	dto "github.com/prometheus/client_model/go"
)

const timeLayout = "15:04:05"

func (a *App) Notifications(ctx context.Context) error {
	items := a.recorder.All()
	if len(items) == 0 {
		printlnFn("No notifications.")
		return nil
	}
	for _, n := range items {
		label := "OK"
		if n.Severity == notify.SeverityError {
			label = "ERROR"
		}
		printlnFn(fmt.Sprintf("%s [%s] %s: %s", n.At.Format(timeLayout), label, n.Title, n.Body))
	}
	return nil
}

// Stats prints the session counters.
func (a *App) Stats(ctx context.Context) error {
	families, err := a.gatherer.Gather()
	if err != nil {
		a.logger.Warn(ctx, "failed to gather metrics", "error", err)
		return err
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			lines = append(lines, formatMetric(mf.GetName(), m))
		}
	}
	if len(lines) == 0 {
		printlnFn("No statistics yet.")
		return nil
	}

	sort.Strings(lines)
	for _, l := range lines {
		printlnFn(l)
	}
	return nil
}

func formatMetric(name string, m *dto.Metric) string {
	var b strings.Builder
	b.WriteString(name)

	if labels := m.GetLabel(); len(labels) > 0 {
		pairs := make([]string, 0, len(labels))
		for _, lp := range labels {
			pairs = append(pairs, lp.GetName()+"="+strconv.Quote(lp.GetValue()))
		}
		b.WriteString("{" + strings.Join(pairs, ",") + "}")
	}

	var value float64
	switch {
	case m.GetCounter() != nil:
		value = m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		value = m.GetGauge().GetValue()
	}
	b.WriteString(" " + strconv.FormatFloat(value, 'f', -1, 64))
	return b.String()
}
