package monitor

import (
	"time"

	"mediaengine/types"

	tea "github.com/charmbracelet/bubbletea"
)

// JobsClient is the part of the API the monitor needs
type JobsClient interface {
	ListJobs() ([]types.Job, error)
}

// JobsUpdateMsg carries the result of one poll
type JobsUpdateMsg struct {
	Jobs []types.Job
	Err  error
}

// TickMsg triggers the next poll
type TickMsg struct {
	Time time.Time
}

func pollJobs(client JobsClient) tea.Cmd {
	return func() tea.Msg {
		jobs, err := client.ListJobs()
		return JobsUpdateMsg{Jobs: jobs, Err: err}
	}
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
