package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
)

// Friend form field order.
const (
	fieldName = iota
	fieldEmail
	fieldPhone
	fieldPreference
	fieldAvatar
	fieldBio
	fieldCount
)

func (m Model) renderEditView(st app.State) string {
	var s strings.Builder

	// Title
	if st.Friend.Editing() {
		s.WriteString(titleStyle.Render("EDIT FRIEND"))
	} else {
		s.WriteString(titleStyle.Render("ADD FRIEND"))
	}
	s.WriteString("\n")

	// Form fields
	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	if st.Friend.Error != "" {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(st.Friend.Error))
		s.WriteString("\n")
	}

	s.WriteString(m.renderToasts())
	s.WriteString("\n")

	// Help
	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.formInputs) == 0 {
		// The modal opened but the inputs haven't been built yet.
		if msg.String() == "esc" {
			return m, m.dispatch(app.KeyEscape{})
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, m.dispatch(app.KeyEscape{})
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		return m, m.dispatch(app.SubmitFriend{Form: m.formValue()})
	}

	// Update current input
	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) initFormInputs(modal app.FriendModalState) {
	inputs := make([]textinput.Model, fieldCount)

	inputs[fieldName] = textinput.New()
	inputs[fieldName].Placeholder = "Name"
	inputs[fieldName].CharLimit = 100

	inputs[fieldEmail] = textinput.New()
	inputs[fieldEmail].Placeholder = "Email"
	inputs[fieldEmail].CharLimit = 100

	inputs[fieldPhone] = textinput.New()
	inputs[fieldPhone].Placeholder = "Phone"
	inputs[fieldPhone].CharLimit = 30

	inputs[fieldPreference] = textinput.New()
	inputs[fieldPreference].Placeholder = "Preference (" + strings.Join(models.Preferences, ", ") + ")"
	inputs[fieldPreference].CharLimit = 30

	inputs[fieldAvatar] = textinput.New()
	inputs[fieldAvatar].Placeholder = "Avatar URL"
	inputs[fieldAvatar].CharLimit = 300

	inputs[fieldBio] = textinput.New()
	inputs[fieldBio].Placeholder = "Bio"
	inputs[fieldBio].CharLimit = 500

	// The controller prefills the form in edit mode and sets the default
	// preference in add mode.
	form := modal.Form
	inputs[fieldName].SetValue(form.Name)
	inputs[fieldEmail].SetValue(form.Email)
	inputs[fieldPhone].SetValue(form.Phone)
	inputs[fieldPreference].SetValue(form.Preference)
	inputs[fieldAvatar].SetValue(form.Avatar)
	inputs[fieldBio].SetValue(form.Bio)

	m.formInputs = inputs
	m.focusIndex = 0
	m.updateFormFocus()
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) formValue() models.FriendInput {
	return models.FriendInput{
		Name:       m.formInputs[fieldName].Value(),
		Email:      m.formInputs[fieldEmail].Value(),
		Phone:      m.formInputs[fieldPhone].Value(),
		Preference: m.formInputs[fieldPreference].Value(),
		Avatar:     m.formInputs[fieldAvatar].Value(),
		Bio:        m.formInputs[fieldBio].Value(),
	}
}
