package monitor

import (
	"fmt"
	"strings"
	"time"

	"mediaengine/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultPollInterval is how often the job list is refreshed
const DefaultPollInterval = time.Second

// Model is the job dashboard state
type Model struct {
	Client   JobsClient
	Interval time.Duration
	Target   string

	Jobs      []types.Job
	Cursor    int
	Connected bool
	Err       error
	LastPoll  time.Time
}

// NewModel creates a dashboard polling client every interval
func NewModel(client JobsClient, target string, interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return Model{
		Client:   client,
		Interval: interval,
		Target:   target,
		Jobs:     make([]types.Job, 0),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(pollJobs(m.Client), tickCmd(m.Interval))
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case TickMsg:
		return m, tea.Batch(pollJobs(m.Client), tickCmd(m.Interval))
	case JobsUpdateMsg:
		return m.handleJobsUpdate(msg), nil
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Jobs)-1 {
			m.Cursor++
		}
	case "r":
		return m, pollJobs(m.Client)
	}
	return m, nil
}

func (m Model) handleJobsUpdate(msg JobsUpdateMsg) Model {
	m.LastPoll = time.Now()
	if msg.Err != nil {
		m.Connected = false
		m.Err = msg.Err
		return m
	}

	// keep the cursor on the same job across refreshes
	selected := m.Selected()
	m.Jobs = msg.Jobs
	m.Connected = true
	m.Err = nil

	m.Cursor = 0
	if selected != nil {
		for i, job := range m.Jobs {
			if job.ID == selected.ID {
				m.Cursor = i
				break
			}
		}
	}
	return m
}

// Selected returns the job under the cursor
func (m Model) Selected() *types.Job {
	if m.Cursor < 0 || m.Cursor >= len(m.Jobs) {
		return nil
	}
	job := m.Jobs[m.Cursor]
	return &job
}

// Counts tallies jobs per state
func (m Model) Counts() map[types.JobState]int {
	counts := make(map[types.JobState]int)
	for _, job := range m.Jobs {
		counts[job.State]++
	}
	return counts
}

// Pending counts jobs that have not finished yet
func (m Model) Pending() int {
	n := 0
	for _, job := range m.Jobs {
		if !job.Finished() {
			n++
		}
	}
	return n
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🎬 Media Engine Jobs"))
	b.WriteString("\n")

	if !m.Connected {
		msg := "❌ Not connected to " + m.Target
		if m.Err != nil {
			msg += ": " + m.Err.Error()
		}
		b.WriteString(ErrorStyle.Render(msg))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render("Press 'r' to retry | 'q' to quit"))
		return b.String()
	}

	counts := m.Counts()
	b.WriteString(InfoStyle.Render(fmt.Sprintf("📊 %d jobs | queued %d | running %d | succeeded %d | failed %d",
		len(m.Jobs), counts[types.JobQueued], counts[types.JobRunning], counts[types.JobSucceeded], counts[types.JobFailed])))
	b.WriteString("\n\n")

	if len(m.Jobs) == 0 {
		b.WriteString(InfoStyle.Render("No jobs yet"))
		b.WriteString("\n\n")
	}

	for i, job := range m.Jobs {
		line := fmt.Sprintf("%s %-36s %s", stateIcon(job.State), job.ID, job.Request.OutputPath)
		if i == m.Cursor {
			b.WriteString(SelectedStyle.Render(line))
		} else {
			b.WriteString(stateStyle(job.State).Render(line))
		}
		b.WriteString("\n")
	}

	if job := m.Selected(); job != nil {
		b.WriteString("\n")
		b.WriteString(BoxStyle.Render(formatJob(*job)))
		b.WriteString("\n")
	}

	help := "↑/↓ select | 'r' refresh | 'q' quit"
	if pending := m.Pending(); pending > 0 {
		help = fmt.Sprintf("⏳ %d in progress | %s", pending, help)
	}
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(help))
	return b.String()
}

func formatJob(job types.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", job.ID)
	fmt.Fprintf(&b, "State: %s\n", stateStyle(job.State).Render(string(job.State)))
	fmt.Fprintf(&b, "Avatar: %s\nAudio: %s\n", job.Request.AvatarPath, job.Request.AudioPath)
	if job.SubtitlePath != "" {
		fmt.Fprintf(&b, "Subtitles: %s\n", job.SubtitlePath)
	}
	if job.Result != nil {
		fmt.Fprintf(&b, "Duration: %.2fs\n", job.Result.Duration)
		if job.Result.ExitCode != 0 {
			fmt.Fprintf(&b, "Exit code: %d\n", job.Result.ExitCode)
		}
	}
	if job.ObjectKey != "" {
		fmt.Fprintf(&b, "Object: %s\n", job.ObjectKey)
	}
	if job.VideoID != "" {
		fmt.Fprintf(&b, "YouTube: https://youtube.com/watch?v=%s\n", job.VideoID)
	}
	if job.Error != "" {
		b.WriteString(ErrorStyle.Render("Error: " + job.Error))
		b.WriteString("\n")
	}
	if job.Finished() {
		fmt.Fprintf(&b, "Finished: %s", job.UpdatedAt.Local().Format("15:04:05"))
	} else {
		fmt.Fprintf(&b, "Updated: %s", job.UpdatedAt.Local().Format("15:04:05"))
	}
	return b.String()
}

func stateIcon(state types.JobState) string {
	switch state {
	case types.JobQueued:
		return "⏳"
	case types.JobRunning:
		return "🚀"
	case types.JobSucceeded:
		return "✅"
	case types.JobFailed:
		return "❌"
	default:
		return "•"
	}
}

func stateStyle(state types.JobState) lipgloss.Style {
	switch state {
	case types.JobSucceeded:
		return SuccessStyle
	case types.JobFailed:
		return ErrorStyle
	case types.JobRunning:
		return RunningStyle
	default:
		return InfoStyle
	}
}
