package types

const (
	EntryError   = "error"
	EntryWarning = "warning"
)

// ErrorMapEntry is a single uuAppErrorMap value
type ErrorMapEntry struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	ParamMap map[string]any `json:"paramMap"`
}

// ErrorMap is the uuAppErrorMap carried by every response, keyed by
// "<command>/<code>"
type ErrorMap map[string]ErrorMapEntry

// Warning is a non-fatal finding reported by a command
type Warning struct {
	Code     string
	Message  string
	ParamMap map[string]any
}

// AddWarning records a warning under command/code
func (m ErrorMap) AddWarning(command, code, message string, paramMap map[string]any) {
	m.add(command, code, EntryWarning, message, paramMap)
}

// AddError records an error under command/code
func (m ErrorMap) AddError(command, code, message string, paramMap map[string]any) {
	m.add(command, code, EntryError, message, paramMap)
}

// AddWarnings records each warning under command
func (m ErrorMap) AddWarnings(command string, warnings []Warning) {
	for _, w := range warnings {
		m.AddWarning(command, w.Code, w.Message, w.ParamMap)
	}
}

func (m ErrorMap) add(command, code, entryType, message string, paramMap map[string]any) {
	if paramMap == nil {
		paramMap = map[string]any{}
	}
	key := code
	if command != "" {
		key = command + "/" + code
	}
	m[key] = ErrorMapEntry{Type: entryType, Message: message, ParamMap: paramMap}
}
