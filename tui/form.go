package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cmdk/protocol"
)

// RequiredFieldError is returned when a required field is left empty
type RequiredFieldError struct {
	Field string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

type formField struct {
	item    protocol.FormItem
	input   textinput.Model // textfield, file
	area    textarea.Model  // textarea
	checked bool
	choice  int
}

func newFormField(item protocol.FormItem) formField {
	f := formField{item: item, checked: item.Checked}
	switch item.Type {
	case protocol.FieldTextArea:
		f.area = newTextArea(item.Placeholder)
		f.area.SetHeight(4)
		f.area.SetValue(item.Value)
	case protocol.FieldTextField, protocol.FieldFile:
		f.input = newTextInput(item.Placeholder)
		if item.Type == protocol.FieldFile && f.input.Placeholder == "" {
			f.input.Placeholder = "path/to/file"
		}
		f.input.SetValue(item.Value)
	case protocol.FieldDropdown:
		for i, opt := range item.Options {
			if opt.Value == item.Value {
				f.choice = i
				break
			}
		}
	}
	return f
}

// value is the field's submission value: a string, a bool for checkboxes,
// or a list of paths for file fields
func (f *formField) value() any {
	switch f.item.Type {
	case protocol.FieldCheckbox:
		return f.checked
	case protocol.FieldFile:
		path := strings.TrimSpace(f.input.Value())
		if path == "" {
			return []string{}
		}
		return []string{path}
	case protocol.FieldTextArea:
		return f.area.Value()
	case protocol.FieldDropdown:
		if f.choice < len(f.item.Options) {
			return f.item.Options[f.choice].Value
		}
		return ""
	default:
		return f.input.Value()
	}
}

func (f *formField) focus() tea.Cmd {
	switch f.item.Type {
	case protocol.FieldTextArea:
		return f.area.Focus()
	case protocol.FieldTextField, protocol.FieldFile:
		return f.input.Focus()
	}
	return nil
}

func (f *formField) blur() {
	f.area.Blur()
	f.input.Blur()
}

// formView edits a form document's fields
type formView struct {
	doc    *protocol.Form
	fields []formField
	focus  int
	width  int
}

func newFormView(doc *protocol.Form) formView {
	v := formView{doc: doc}
	for _, item := range doc.Items {
		v.fields = append(v.fields, newFormField(item))
	}
	if len(v.fields) > 0 {
		v.fields[0].focus()
	}
	return v
}

func (v *formView) setSize(width int) {
	v.width = width
	for i := range v.fields {
		v.fields[i].input.Width = max(width-4, 10)
		v.fields[i].area.SetWidth(max(width-4, 10))
	}
}

func (v *formView) moveFocus(delta int) tea.Cmd {
	if len(v.fields) == 0 {
		return nil
	}
	v.fields[v.focus].blur()
	v.focus = (v.focus + delta + len(v.fields)) % len(v.fields)
	return v.fields[v.focus].focus()
}

// update handles a key for the focused field and reports whether the form
// should be submitted
func (v *formView) update(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, formKeys.Submit):
		return nil, true
	case key.Matches(msg, formKeys.Next):
		return v.moveFocus(1), false
	case key.Matches(msg, formKeys.Prev):
		return v.moveFocus(-1), false
	}
	if len(v.fields) == 0 {
		return nil, msg.Type == tea.KeyEnter
	}

	f := &v.fields[v.focus]
	if msg.Type == tea.KeyEnter && f.item.Type != protocol.FieldTextArea {
		if v.focus == len(v.fields)-1 {
			return nil, true
		}
		return v.moveFocus(1), false
	}

	var cmd tea.Cmd
	switch f.item.Type {
	case protocol.FieldCheckbox:
		if key.Matches(msg, formKeys.Toggle) {
			f.checked = !f.checked
		}
	case protocol.FieldDropdown:
		if n := len(f.item.Options); n > 0 {
			switch {
			case key.Matches(msg, formKeys.Left):
				f.choice = (f.choice - 1 + n) % n
			case key.Matches(msg, formKeys.Right), key.Matches(msg, formKeys.Toggle):
				f.choice = (f.choice + 1) % n
			}
		}
	case protocol.FieldTextArea:
		f.area, cmd = f.area.Update(msg)
	default:
		f.input, cmd = f.input.Update(msg)
	}
	return cmd, false
}

// values collects the submission payload keyed by field id
func (v *formView) values() (map[string]any, error) {
	values := make(map[string]any, len(v.fields))
	for i := range v.fields {
		f := &v.fields[i]
		val := f.value()
		if f.item.Required && isEmptyValue(val) {
			name := f.item.Title
			if name == "" {
				name = f.item.ID
			}
			return nil, &RequiredFieldError{Field: name}
		}
		values[f.item.ID] = val
	}
	return values, nil
}

func isEmptyValue(val any) bool {
	switch v := val.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	}
	return false
}

func (v *formView) view() string {
	if len(v.fields) == 0 {
		return emptyStyle.Render("This form has no fields")
	}
	var b strings.Builder
	for i := range v.fields {
		f := &v.fields[i]
		focused := i == v.focus

		label := f.item.Title
		if label == "" {
			label = f.item.ID
		}
		if focused {
			label = focusedLabelStyle.Render(label)
		} else {
			label = fieldLabelStyle.Render(label)
		}
		if f.item.Required {
			label += requiredStyle.Render(" *")
		}
		b.WriteString(label)
		b.WriteString("\n")

		switch f.item.Type {
		case protocol.FieldCheckbox:
			box := "[ ]"
			if f.checked {
				box = "[x]"
			}
			line := box + " " + f.item.Label
			if focused {
				line = cursorStyle.Render(line)
			}
			b.WriteString("  " + line)
		case protocol.FieldDropdown:
			var opt string
			if f.choice < len(f.item.Options) {
				opt = f.item.Options[f.choice].Title
			}
			line := fmt.Sprintf("‹ %s ›", opt)
			if focused {
				line = cursorStyle.Render(line)
			}
			b.WriteString("  " + line)
		case protocol.FieldTextArea:
			b.WriteString(f.area.View())
		default:
			b.WriteString("  " + f.input.View())
		}
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
