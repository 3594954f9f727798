package calculator

// CalcRequest is the JSON body for binary operations (add, subtract, multiply, divide).
type CalcRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// CalcResponse is the JSON response for binary operations.
type CalcResponse struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    float64 `json:"result"`
	Display   string  `json:"display"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Buttons []string `json:"buttons"`
}

// EvaluateStep records the display after one press.
type EvaluateStep struct {
	Button  string `json:"button"`
	Display string `json:"display"`
	Error   string `json:"error,omitempty"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Steps []EvaluateStep `json:"steps"`
	State State          `json:"state"`
}

// PressRequest is the JSON body for POST /calculator/sessions/{id}/press.
type PressRequest struct {
	Button string `json:"button"`
}

// SessionResponse describes a session and, after a press, the button that
// produced its state.
type SessionResponse struct {
	ID     string `json:"id"`
	Button string `json:"button,omitempty"`
	State  State  `json:"state"`
}

// KeypadResponse is the JSON response for GET /calculator/keypad.
type KeypadResponse struct {
	Rows [][]Key `json:"rows"`
}
