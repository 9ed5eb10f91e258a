package profiler

import (
	"sync"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"
)

// Dashboard serves live runtime charts over HTTP.
type Dashboard struct {
	mgr  *statsview.ViewManager
	once sync.Once
}

// StartDashboard configures and starts the statsview server in the background.
//
// Parameters:
//   - addr: the listen address, e.g. "localhost:18066"
//   - logger: receives the address being served
//
// Returns:
//   - *Dashboard: the running dashboard
func StartDashboard(addr string, logger logrus.FieldLogger) *Dashboard {
	// configuration must be set before statsview.New
	viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(addr))
	d := &Dashboard{mgr: statsview.New()}
	go d.mgr.Start()
	logger.Infof("stats dashboard on http://%s/debug/statsview", addr)
	return d
}

// Stop shuts the server down. Later calls are no-ops.
func (d *Dashboard) Stop() {
	d.once.Do(d.mgr.Stop)
}
