package views

// ViewState is the state every browser view shares: the terminal size from
// the last resize and a transient status line (yank confirmations, load
// errors). Both the chunk browser and the help view embed it.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize records the terminal dimensions from a resize message.
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets the status line; isErr selects the error styling.
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage drops the status line. Called on every keypress so stale
// confirmations do not linger.
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}
