package browse

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobfeed/internal/adapter"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// AllPartitions is returned by RunPartitionPicker when the user picks every
// partition at once.
const AllPartitions = "*"

type pickerModel struct {
	options []string // AllPartitions first, then each partition
	cursor  int
	chosen  int // -1 = no choice yet, -2 = quit
}

func newPickerModel(partitions []string) pickerModel {
	options := []string{AllPartitions}
	if len(partitions) > 1 {
		options = append(options, partitions...)
	} else {
		options = append([]string(nil), partitions...)
	}
	return pickerModel{options: options, chosen: -1}
}

// label renders one picker option.
func (m pickerModel) label(option string) string {
	if option != AllPartitions {
		return adapter.SourceLabel(option)
	}
	var parts []string
	for _, o := range m.options[1:] {
		parts = append(parts, strings.ToUpper(o))
	}
	return "All partitions (" + strings.Join(parts, ", ") + ")"
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.chosen = -2
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.options) == 0 {
				return m, nil
			}
			m.chosen = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("Browse postings: select a partition")
	s += "\n"

	for i, o := range m.options {
		label := m.label(o)
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+label) + "\n"
		} else {
			s += pickerItemStyle.Render(label) + "\n"
		}
	}

	s += pickerHintStyle.Render("↑/↓/j/k navigate  enter select  q quit")
	return s
}

// RunPartitionPicker shows an interactive partition selector. With more
// than one partition the first entry is AllPartitions. Returns the chosen
// partition, or "" if the user quit.
func RunPartitionPicker(partitions []string) (string, error) {
	p := tea.NewProgram(newPickerModel(partitions))
	result, err := p.Run()
	if err != nil {
		return "", err
	}

	final := result.(pickerModel)
	if final.chosen < 0 {
		return "", nil
	}
	return final.options[final.chosen], nil
}
