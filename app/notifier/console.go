package notifier

import (
	"fmt"
	"strings"

	"github.com/lysyi3m/nga-monitor/app/config"
)

var _ Sink = (*ConsoleSink)(nil)

type ConsoleSink struct {
	enabled bool
}

func NewConsoleSink(cfg config.ConsoleConfig) *ConsoleSink {
	return &ConsoleSink{enabled: cfg.Enabled}
}

func (s *ConsoleSink) Name() string {
	return "console"
}

func (s *ConsoleSink) Send(event Event) bool {
	if !s.enabled {
		return false
	}

	separator := strings.Repeat("=", 80)
	fmt.Printf("\n%s\n", separator)
	fmt.Println("NOTIFICATION")
	fmt.Println(separator)
	fmt.Printf("Title: %s\n", event.Title)
	fmt.Printf("Message: %s\n", event.Message)
	if event.URL != "" {
		fmt.Printf("URL: %s\n", event.URL)
	}

	return true
}
