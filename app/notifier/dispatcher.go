package notifier

import (
	"log/slog"

	"github.com/lysyi3m/nga-monitor/app/config"
	"github.com/lysyi3m/nga-monitor/app/crawler"
)

// Dispatcher fans a qualifying post out to every configured sink. Sinks are
// independent: one failing sink never affects the others or the caller.
type Dispatcher struct {
	sinks []Sink
}

func NewDispatcher(cfg config.NotifierConfig) *Dispatcher {
	var sinks []Sink
	if cfg.Bark != nil {
		sinks = append(sinks, NewBarkSink(*cfg.Bark))
	}
	if cfg.Console != nil {
		sinks = append(sinks, NewConsoleSink(*cfg.Console))
	}

	return &Dispatcher{sinks: sinks}
}

func (d *Dispatcher) Dispatch(post crawler.Post) {
	event := NewEvent(post)

	for _, sink := range d.sinks {
		if !sink.Send(event) {
			slog.Debug("Notification not delivered", "sink", sink.Name(),
				"tid", post.TID, "pid", post.PID)
		}
	}
}

func (d *Dispatcher) SinkCount() int {
	return len(d.sinks)
}
